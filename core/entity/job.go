package entity

import (
	"fmt"
	"time"

	"bulkdozer/core/feed"
	"bulkdozer/core/idstore"
	"bulkdozer/core/remote"

	"github.com/google/uuid"
)

// LogEntry is one job-visible log line.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// PreFetchConfig warms the cache with related entities before mapping.
type PreFetchConfig struct {
	// Entity is the remote type to list.
	Entity string `json:"entity"`
	// ListField is the remote list payload field.
	ListField string `json:"listField"`
	// FilterName is the list filter receiving the collected values.
	FilterName string `json:"filterName"`
	// FieldName is the item (load) or row (push) field holding the values.
	FieldName string `json:"fieldName"`
}

// Job is the record of one load or push operation for one entity.
type Job struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Generation int64  `json:"generation"`

	IDsToLoad []string `json:"idsToLoad,omitempty"`

	CampaignIDs       []string `json:"campaignIds,omitempty"`
	PlacementGroupIDs []string `json:"placementGroupIds,omitempty"`
	PlacementIDs      []string `json:"placementIds,omitempty"`
	AdIDs             []string `json:"adIds,omitempty"`
	ActiveOnly        bool     `json:"activeOnly,omitempty"`

	PreFetchConfigs []PreFetchConfig `json:"preFetchConfigs,omitempty"`

	ItemsToLoad []remote.Entity `json:"-"`
	LoadedIDs   []string        `json:"loadedIds,omitempty"`

	Jobs  []*PushJob   `json:"jobs,omitempty"`
	Feed  []*feed.Row  `json:"-"`
	IDMap idstore.Data `json:"idMap,omitempty"`

	Logs []LogEntry `json:"logs,omitempty"`
}

// NewJob creates a job for entity with a fresh id.
func NewJob(entity string) *Job {
	return &Job{ID: uuid.NewString(), Entity: entity}
}

// Log appends a job-visible log line.
func (j *Job) Log(format string, args ...any) {
	j.Logs = append(j.Logs, LogEntry{Time: time.Now(), Message: fmt.Sprintf(format, args...)})
}

// PushState is the position of a push job in its state machine.
type PushState string

const (
	StateNew                 PushState = "new"
	StateFetchingBase        PushState = "fetchingBase"
	StateResolvingChildren   PushState = "resolvingChildren"
	StateResolvingReferences PushState = "resolvingReferences"
	StateMappingFields       PushState = "mappingFields"
	StateCommitting          PushState = "committing"
	StateRecordingID         PushState = "recordingId"
	StatePostProcessing      PushState = "postProcessing"
	StateDone                PushState = "done"
	StateFailed              PushState = "failed"
)

// PushJob is the record of pushing one row.
type PushJob struct {
	Entity string        `json:"entity"`
	Row    *feed.Row     `json:"-"`
	Remote remote.Entity `json:"remote,omitempty"`
	IDMap  idstore.Data  `json:"-"`
	Logs   []LogEntry    `json:"logs,omitempty"`
	State  PushState     `json:"state"`
}

// Log appends a job-visible log line.
func (p *PushJob) Log(format string, args ...any) {
	p.Logs = append(p.Logs, LogEntry{Time: time.Now(), Message: fmt.Sprintf(format, args...)})
}
