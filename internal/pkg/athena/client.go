// Package athena wraps the managed query engine: one blocking Query
// call that starts an execution, polls it to completion, and drains
// every result page.
package athena

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// api is the slice of the SDK client the wrapper uses.
type api interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

// ResultSet is a fully materialized query result. Row values are nil
// for SQL NULLs.
type ResultSet struct {
	Columns []string
	Rows    [][]*string
}

// Index returns the position of the named column, -1 when absent.
func (rs *ResultSet) Index(name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Config holds the query execution settings.
type Config struct {
	Database       string
	Workgroup      string
	OutputLocation string
	PollInterval   time.Duration
}

// Client executes SQL against the lake.
type Client struct {
	api          api
	database     string
	workgroup    string
	output       string
	pollInterval time.Duration
}

// NewClient creates a query engine client. The output location is
// required: results cannot stage without it.
func NewClient(awsConfig aws.Config, config Config) (*Client, error) {
	if config.Database == "" {
		return nil, fmt.Errorf("athena database is required")
	}
	if config.OutputLocation == "" {
		return nil, fmt.Errorf("athena output location is required")
	}

	pollInterval := config.PollInterval
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}

	return &Client{
		api:          athena.NewFromConfig(awsConfig),
		database:     config.Database,
		workgroup:    config.Workgroup,
		output:       config.OutputLocation,
		pollInterval: pollInterval,
	}, nil
}

// Query runs one statement to completion and returns the whole result.
// Failures propagate immediately; there are no retries.
func (c *Client) Query(ctx context.Context, sql string) (*ResultSet, error) {
	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(c.database),
		},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String(c.output),
		},
	}
	if c.workgroup != "" {
		input.WorkGroup = aws.String(c.workgroup)
	}

	started, err := c.api.StartQueryExecution(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start query execution: %w", err)
	}
	executionID := aws.ToString(started.QueryExecutionId)

	if err := c.waitForCompletion(ctx, executionID); err != nil {
		return nil, err
	}

	return c.fetchResults(ctx, executionID)
}

func (c *Client) waitForCompletion(ctx context.Context, executionID string) error {
	for {
		out, err := c.api.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(executionID),
		})
		if err != nil {
			return fmt.Errorf("failed to get query execution %s: %w", executionID, err)
		}

		status := out.QueryExecution.Status
		switch status.State {
		case types.QueryExecutionStateSucceeded:
			return nil
		case types.QueryExecutionStateFailed, types.QueryExecutionStateCancelled:
			return fmt.Errorf("query execution %s %s: %s",
				executionID, status.State, aws.ToString(status.StateChangeReason))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) fetchResults(ctx context.Context, executionID string) (*ResultSet, error) {
	result := &ResultSet{}
	var nextToken *string
	firstPage := true

	for {
		out, err := c.api.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: aws.String(executionID),
			NextToken:        nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get query results %s: %w", executionID, err)
		}

		rows := out.ResultSet.Rows
		if firstPage {
			if meta := out.ResultSet.ResultSetMetadata; meta != nil {
				for _, col := range meta.ColumnInfo {
					result.Columns = append(result.Columns, aws.ToString(col.Name))
				}
			}
			// The first row of the first page is the header.
			if len(rows) > 0 {
				rows = rows[1:]
			}
			firstPage = false
		}

		for _, row := range rows {
			values := make([]*string, len(row.Data))
			for i, datum := range row.Data {
				values[i] = datum.VarCharValue
			}
			result.Rows = append(result.Rows, values)
		}

		nextToken = out.NextToken
		if nextToken == nil {
			return result, nil
		}
	}
}
