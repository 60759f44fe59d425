// file: internal/testutil/integration.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/elsayedebiad/qsr-final-sub001/internal/database"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/elsayedebiad/qsr-final-sub001/internal/operations"
	"github.com/elsayedebiad/qsr-final-sub001/internal/realtime"
	"github.com/elsayedebiad/qsr-final-sub001/internal/records"
)

// IntegrationEnv holds all resources for an integration test.
type IntegrationEnv struct {
	Store     *database.PebbleStore
	Queue     *operations.OperationQueue
	Repo      *records.Repository
	ExportDir string
	TempDir   string
	T         *testing.T
}

// SetupIntegration opens a real Pebble store, a single-worker queue and an
// event hub, installs them as the package globals and loads recs into a
// static repository. Globals are restored on cleanup.
func SetupIntegration(t *testing.T, recs []models.CandidateRecord) *IntegrationEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	tmpBase := t.TempDir()
	exportDir := filepath.Join(tmpBase, "exports")
	require.NoError(t, os.MkdirAll(exportDir, 0o755))

	store, err := database.NewPebbleStore(filepath.Join(tmpBase, "db"))
	require.NoError(t, err)
	queue := operations.NewOperationQueue(store, 1)

	prevStore, prevQueue, prevHub := database.GlobalStore, operations.GlobalQueue, realtime.GlobalHub
	database.GlobalStore = store
	operations.GlobalQueue = queue
	realtime.GlobalHub = realtime.NewEventHub()

	t.Cleanup(func() {
		_ = queue.Shutdown(2 * time.Second)
		_ = store.Close()
		database.GlobalStore, operations.GlobalQueue, realtime.GlobalHub = prevStore, prevQueue, prevHub
	})

	return &IntegrationEnv{
		Store:     store,
		Queue:     queue,
		Repo:      records.NewStaticRepository(recs),
		ExportDir: exportDir,
		TempDir:   tmpBase,
		T:         t,
	}
}

// SampleRecords is a small gallery covering the common filter paths: two
// discoverable Filipino candidates, a Kenyan driver, a hired record and an
// archived one.
func SampleRecords() []models.CandidateRecord {
	children := models.FlexInt(2)
	return []models.CandidateRecord{
		{
			ID: "1", FullName: "Maria Santos", Nationality: "FILIPINO", Position: "HOUSEMAID",
			Age: 28, ReferenceCode: "PH-001", Religion: "CHRISTIAN", Status: models.StatusNew,
			Cleaning: models.LevelYes, ArabicCooking: models.LevelWilling, EnglishLevel: models.LevelYes,
			Experience: "3 years", NumberOfChildren: &children,
		},
		{
			ID: "2", FullName: "Joy Dela Cruz", FullNameArabic: "جوي ديلا كروز", Nationality: "FILIPINO",
			Position: "NANNY", Age: 34, ReferenceCode: "PH-002", Status: models.StatusBooked,
			BabySitting: models.LevelYes, ChildrenCare: models.LevelYes,
		},
		{
			ID: "3", FullName: "Grace Otieno", Nationality: "KENYAN", Position: "DRIVER",
			Age: 41, ReferenceCode: "KE-003", Status: models.StatusNew, Driving: models.LevelYes,
		},
		{ID: "4", FullName: "Amina Yusuf", Nationality: "FILIPINO", Status: models.StatusHired},
		{ID: "5", FullName: "Old Record", Nationality: "KENYAN", Status: models.StatusArchived},
	}
}

// WriteRecordsFile writes recs as a JSON array under dir and returns the
// file path.
func WriteRecordsFile(t *testing.T, dir string, recs []models.CandidateRecord) string {
	t.Helper()
	data, err := json.Marshal(recs)
	require.NoError(t, err)
	path := filepath.Join(dir, "cvs.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// WaitForExport polls until an export session reaches a terminal status
// and returns it.
func WaitForExport(t *testing.T, store database.Store, id string, timeout time.Duration) *database.ExportSession {
	t.Helper()
	var last *database.ExportSession
	require.Eventually(t, func() bool {
		s, err := store.GetExportSession(id)
		if err != nil {
			return false
		}
		last = s
		return database.Terminal(s.Status)
	}, timeout, 20*time.Millisecond)
	return last
}
