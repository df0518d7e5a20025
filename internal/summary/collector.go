// Package summary assembles reports from the external sources: it drains the
// task source, unions the configured lists, and builds the daily Markdown.
package summary

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/types"
)

// fetchPageSize is the page size used when draining task listings.
const fetchPageSize = 100

// Collector fetches every task from the configured lists. A missing list is
// skipped with a warning; an unreachable task service fails the whole fetch,
// since no report is possible without it.
type Collector struct {
	source    types.TaskSource
	listNames []string
	logger    hclog.Logger
}

// NewCollector creates a collector over the named lists.
func NewCollector(source types.TaskSource, listNames []string, logger hclog.Logger) *Collector {
	return &Collector{source: source, listNames: listNames, logger: logger}
}

// Collect returns the union of all tasks in the configured lists, tagged
// with their source list. Fetch order within a list is preserved.
func (c *Collector) Collect(ctx context.Context) ([]types.TaskRecord, error) {
	lists, err := c.source.ListTaskLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("task service unavailable: %w", err)
	}

	idByTitle := make(map[string]string, len(lists))
	for _, list := range lists {
		idByTitle[list.Title] = list.ID
	}

	var all []types.TaskRecord
	for _, name := range c.listNames {
		listID, ok := idByTitle[name]
		if !ok {
			c.logger.Warn("task list not found, skipping", "list", name)
			continue
		}

		tasks, err := c.drainList(ctx, listID, name)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tasks from %q: %w", name, err)
		}
		all = append(all, tasks...)
	}

	return all, nil
}

// drainList pages through one list until the source stops returning a next
// page token.
func (c *Collector) drainList(ctx context.Context, listID, listName string) ([]types.TaskRecord, error) {
	var tasks []types.TaskRecord
	pageToken := ""

	for {
		page, err := c.source.ListTasks(ctx, listID, types.TaskQuery{
			IncludeCompleted: true,
			IncludeHidden:    true,
			PageSize:         fetchPageSize,
			PageToken:        pageToken,
		})
		if err != nil {
			return nil, err
		}

		for _, task := range page.Items {
			task.SourceList = listName
			tasks = append(tasks, task)
		}

		if page.NextPageToken == "" {
			return tasks, nil
		}
		pageToken = page.NextPageToken
	}
}
