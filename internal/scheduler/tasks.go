package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFacetsRefresh = "listings.facets.refresh"

// FacetsRefreshPayload records why a refresh was requested.
type FacetsRefreshPayload struct {
	Reason string `json:"reason"`
}

func NewFacetsRefreshTask(payload FacetsRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFacetsRefresh, data), nil
}

func ParseFacetsRefreshPayload(task *asynq.Task) (FacetsRefreshPayload, error) {
	var payload FacetsRefreshPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FacetsRefreshPayload{}, err
	}
	return payload, nil
}
