package integrity

import (
	"context"
	"errors"
	"fmt"

	"bulkdozer/core/entity"
	"bulkdozer/core/storage"
	"bulkdozer/core/tabular"
	"bulkdozer/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotConfigured is returned by checks whose backend is not configured.
var ErrNotConfigured = errors.New("not configured")

// ErrUnknownCheck is returned by RunCheck for an unknown check name.
var ErrUnknownCheck = errors.New("unknown check")

// Check names accepted by RunCheck.
const (
	WorkbookCheck  = "workbook"
	StoreCheck     = "store"
	DatabaseCheck  = "database"
	StructureCheck = "structure"
)

// Deps are the collaborators of a Service. DB and Storage are optional.
type Deps struct {
	Store        tabular.Workbook
	Registry     *entity.Registry
	DB           *gorm.DB
	Storage      storage.Client
	Bucket       string
	StoreTable   string
	ExportPrefix string
	Logger       *zap.Logger
}

// Service handles integrity checks.
type Service struct {
	store        tabular.Workbook
	registry     *entity.Registry
	db           *gorm.DB
	client       storage.Client
	bucket       string
	storeTable   string
	exportPrefix string
	logger       *zap.Logger
}

// NewService creates a new integrity service.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{
		store:        deps.Store,
		registry:     deps.Registry,
		db:           deps.DB,
		client:       deps.Storage,
		bucket:       deps.Bucket,
		storeTable:   deps.StoreTable,
		exportPrefix: deps.ExportPrefix,
		logger:       deps.Logger,
	}
}

// CheckWorkbook returns the state of every entity table.
func (s *Service) CheckWorkbook(ctx context.Context) (*checks.WorkbookReport, error) {
	return checks.CheckWorkbook(ctx, s.store, s.registry)
}

// FixWorkbook creates the missing entity tables.
func (s *Service) FixWorkbook(ctx context.Context, report *checks.WorkbookReport) ([]string, error) {
	return checks.FixWorkbook(ctx, s.store, s.registry, s.logger, report)
}

// CheckStore returns the state of the id map table.
func (s *Service) CheckStore(ctx context.Context) (*checks.StoreReport, error) {
	return checks.CheckStore(ctx, s.store, s.storeTable)
}

// FixStore creates an empty id map when missing.
func (s *Service) FixStore(ctx context.Context, report *checks.StoreReport) (bool, error) {
	return checks.FixStore(ctx, s.store, s.logger, report)
}

// CheckDatabase returns the schema state of the workbook database.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	if s.db == nil {
		return nil, errors.Join(ErrNotConfigured, errors.New("database connection is nil"))
	}
	return checks.CheckDatabase(s.db)
}

// FixDatabase migrates the workbook database.
func (s *Service) FixDatabase() error {
	return checks.FixDatabase(s.db)
}

// CheckStructure returns the export folders missing from the bucket.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, errors.Join(ErrNotConfigured, errors.New("storage client is nil"))
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, checks.RequiredFolders(s.exportPrefix))
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// Result is the outcome of one check.
type Result struct {
	Status string   `json:"status"` // "ok", "failed", "fixed", "skipped", "error"
	Report any      `json:"report,omitempty"`
	Fixed  []string `json:"fixed,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Report is the outcome of every check.
type Report struct {
	Matched   bool   `json:"matched"`
	Workbook  Result `json:"workbook"`
	Store     Result `json:"store"`
	Database  Result `json:"database"`
	Structure Result `json:"structure"`
}

// Run performs every check and, when fix is set, repairs what it can.
// Checks whose backend is not configured are skipped.
func (s *Service) Run(ctx context.Context, fix bool) *Report {
	r := &Report{Matched: true}
	// The database goes first since the workbook tables live in it.
	r.Database = s.runDatabase(fix)
	r.Workbook = s.runWorkbook(ctx, fix)
	r.Store = s.runStore(ctx, fix)
	r.Structure = s.runStructure(ctx, fix)
	for _, res := range []Result{r.Workbook, r.Store, r.Database, r.Structure} {
		if res.Status == "failed" || res.Status == "error" {
			r.Matched = false
		}
	}
	return r
}

// RunCheck performs the single check called name.
func (s *Service) RunCheck(ctx context.Context, name string, fix bool) (Result, error) {
	switch name {
	case WorkbookCheck:
		return s.runWorkbook(ctx, fix), nil
	case StoreCheck:
		return s.runStore(ctx, fix), nil
	case DatabaseCheck:
		return s.runDatabase(fix), nil
	case StructureCheck:
		return s.runStructure(ctx, fix), nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCheck, name)
	}
}

func errorResult(err error) Result {
	if errors.Is(err, ErrNotConfigured) {
		return Result{Status: "skipped", Error: err.Error()}
	}
	return Result{Status: "error", Error: err.Error()}
}

func (s *Service) runWorkbook(ctx context.Context, fix bool) Result {
	report, err := s.CheckWorkbook(ctx)
	if err != nil {
		return errorResult(err)
	}
	res := Result{Status: "ok", Report: report}
	if report.Matched {
		return res
	}
	res.Status = "failed"
	if fix && len(report.Missing()) > 0 {
		created, err := s.FixWorkbook(ctx, report)
		res.Fixed = created
		if err != nil {
			res.Status, res.Error = "error", err.Error()
			return res
		}
		if report, err = s.CheckWorkbook(ctx); err == nil {
			res.Report = report
			if report.Matched {
				res.Status = "fixed"
			}
		}
	}
	return res
}

func (s *Service) runStore(ctx context.Context, fix bool) Result {
	report, err := s.CheckStore(ctx)
	if err != nil {
		return errorResult(err)
	}
	res := Result{Status: "ok", Report: report}
	if report.Status == "ok" {
		return res
	}
	res.Status = "failed"
	if fix {
		fixed, err := s.FixStore(ctx, report)
		if err != nil {
			res.Status, res.Error = "error", err.Error()
			return res
		}
		if fixed {
			res.Status = "fixed"
			res.Fixed = []string{report.Table}
		}
	}
	return res
}

func (s *Service) runDatabase(fix bool) Result {
	report, err := s.CheckDatabase()
	if err != nil {
		return errorResult(err)
	}
	res := Result{Status: "ok", Report: report}
	if report.Matched {
		return res
	}
	res.Status = "failed"
	if fix {
		if err := s.FixDatabase(); err != nil {
			res.Status, res.Error = "error", err.Error()
			return res
		}
		if report, err = s.CheckDatabase(); err == nil {
			res.Report = report
			if report.Matched {
				res.Status = "fixed"
			}
		}
	}
	return res
}

func (s *Service) runStructure(ctx context.Context, fix bool) Result {
	missing, err := s.CheckStructure(ctx)
	if err != nil {
		return errorResult(err)
	}
	res := Result{Status: "ok", Report: map[string][]string{"missing": missing}}
	if len(missing) == 0 {
		return res
	}
	res.Status = "failed"
	if fix {
		if err := s.FixStructure(ctx, missing); err != nil {
			res.Status, res.Error = "error", err.Error()
			return res
		}
		res.Status = "fixed"
		res.Fixed = missing
	}
	return res
}
