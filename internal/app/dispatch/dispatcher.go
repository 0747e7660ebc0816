// Package dispatch is the boundary to the external durable event dispatcher.
// Sends are fire-and-forget and at-least-once; the receiving workers are
// idempotent by construction, keyed by project id and job name.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

// Event names consumed by the out-of-scope worker functions.
const (
	EventProcessProject = "ProcessProject"
	EventRunJob         = "RunGenerationJob"
)

// PipelinePayload triggers a full pipeline run for one project.
type PipelinePayload struct {
	ProjectID string   `json:"project_id"`
	Plan      string   `json:"plan"`
	Jobs      []string `json:"jobs,omitempty"`
}

// JobPayload triggers a single targeted generation job.
type JobPayload struct {
	ProjectID  string `json:"project_id"`
	Job        string `json:"job"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Dispatcher sends events to the durable executor. dedupeKey identifies the
// logical run; the executor de-duplicates effects, not invocation count.
type Dispatcher interface {
	Send(ctx context.Context, event, dedupeKey string, payload interface{}) error
}

// Config holds Temporal client configuration
type Config struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

// TemporalDispatcher sends events as Temporal workflow starts. The dedupe key
// becomes the workflow ID, so a duplicate send while the run is in flight is a
// no-op rather than a second logical run.
type TemporalDispatcher struct {
	client    client.Client
	taskQueue string
	logger    *zap.Logger
}

// NewTemporalClient creates a new Temporal client with the given configuration
func NewTemporalClient(config Config) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  config.HostPort,
		Namespace: config.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}

// NewTemporalDispatcher wraps an existing Temporal client.
func NewTemporalDispatcher(c client.Client, taskQueue string, logger *zap.Logger) *TemporalDispatcher {
	return &TemporalDispatcher{client: c, taskQueue: taskQueue, logger: logger}
}

func (d *TemporalDispatcher) Send(ctx context.Context, event, dedupeKey string, payload interface{}) error {
	options := client.StartWorkflowOptions{
		ID:        dedupeKey,
		TaskQueue: d.taskQueue,
	}

	_, err := d.client.ExecuteWorkflow(ctx, options, event, payload)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			// at-least-once triggering: a duplicate send is success
			d.logger.Debug("event already in flight, skipping duplicate",
				zap.String("event", event),
				zap.String("dedupe_key", dedupeKey))
			return nil
		}
		return fmt.Errorf("dispatch %s: %w", event, err)
	}

	d.logger.Info("event dispatched",
		zap.String("event", event),
		zap.String("dedupe_key", dedupeKey))
	return nil
}

func (d *TemporalDispatcher) Close() {
	d.client.Close()
}
