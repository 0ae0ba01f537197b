// ABOUTME: Tests for batch reading and import
// ABOUTME: Covers input order, abort semantics, unknown kinds, and cancellation
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/mandato/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func dealJSON(id, stage string, probability int) string {
	return fmt.Sprintf(`{"id":%q,"name":"Project %s","mandateType":"Sell","sector":"Software",`+
		`"evMin":1000000,"evMax":5000000,"stage":%q,"probabilityPct":%d}`, id, id, stage, probability)
}

func TestReadRecordsArray(t *testing.T) {
	input := `[
		{"kind": "company", "data": {"id": "c1", "name": "Acme", "sector": "Industrial", "country": "ES"}},
		` + dealJSON("d1", "Qualified", 15) + `,
		42
	]`

	records, err := ReadRecords(strings.NewReader(input), "deal")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "company", records[0].Kind)
	assert.JSONEq(t, `{"id": "c1", "name": "Acme", "sector": "Industrial", "country": "ES"}`, string(records[0].Data))
	assert.Equal(t, "deal", records[1].Kind)
	assert.Equal(t, "deal", records[2].Kind)
	assert.Equal(t, "42", string(records[2].Data))
}

func TestReadRecordsJSONLines(t *testing.T) {
	input := dealJSON("d1", "New Lead", 5) + "\n" +
		`{"kind":"contact","data":{"id":"p1","name":"Ana","email":"ana@example.com"}}` + "\n\n"

	records, err := ReadRecords(strings.NewReader(input), "deal")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "deal", records[0].Kind)
	assert.Equal(t, "contact", records[1].Kind)
}

func TestReadRecordsMalformed(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(`[{"id": 1},`), "deal")
	assert.Error(t, err)

	_, err = ReadRecords(strings.NewReader("{\"id\": 1}\n{oops"), "deal")
	assert.Error(t, err)

	records, err := ReadRecords(strings.NewReader("  \n"), "deal")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestImportMixedBatch(t *testing.T) {
	database := setupTestDB(t)

	records := []Record{
		{Kind: "deal", Data: []byte(dealJSON("d1", "Qualified", 15))},
		{Kind: "deal", Data: []byte(dealJSON("d2", "Negotiation", 50))},
		{Kind: "company", Data: []byte(`{"id":"c1","name":"Acme","sector":"Industrial","country":"ES"}`)},
		{Kind: "invoice", Data: []byte(`{}`)},
	}

	report, err := Import(context.Background(), database, records, Options{Workers: 3})
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.False(t, report.Aborted)

	require.Len(t, report.Accepted, 2)
	assert.Equal(t, 0, report.Accepted[0].Index)
	assert.Equal(t, "d1", report.Accepted[0].ID)
	assert.Equal(t, 2, report.Accepted[1].Index)

	require.Len(t, report.Rejected, 2)
	assert.Equal(t, 1, report.Rejected[0].Index)
	require.Len(t, report.Rejected[0].Issues, 1)
	assert.Equal(t, "probabilityPct", report.Rejected[0].Issues[0].Path)
	assert.Equal(t, 3, report.Rejected[1].Index)
	assert.Contains(t, report.Rejected[1].Error, "unknown record kind")

	deals, err := db.FindDeals(database, db.DealFilter{})
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "d1", deals[0].ID)
}

func TestImportAbortOnError(t *testing.T) {
	database := setupTestDB(t)

	records := []Record{
		{Kind: "deal", Data: []byte(dealJSON("d1", "Qualified", 15))},
		{Kind: "deal", Data: []byte(`{"id":"d2"}`)},
	}

	report, err := Import(context.Background(), database, records, Options{Workers: 2, AbortOnError: true})
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Empty(t, report.Accepted)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 1, report.Rejected[0].Index)

	deals, err := db.FindDeals(database, db.DealFilter{})
	require.NoError(t, err)
	assert.Empty(t, deals, "aborted batches write nothing")
}

func TestImportKeepsInputOrder(t *testing.T) {
	database := setupTestDB(t)

	var records []Record
	for i := 0; i < 40; i++ {
		records = append(records, Record{Kind: "deal", Data: []byte(dealJSON(fmt.Sprintf("d%02d", i), "NDA Sent", 25))})
	}

	report, err := Import(context.Background(), database, records, Options{Workers: 8})
	require.NoError(t, err)
	require.True(t, report.OK())
	require.Len(t, report.Accepted, 40)
	for i, r := range report.Accepted {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, fmt.Sprintf("d%02d", i), r.ID)
	}
}

func TestImportDuplicateIDIsRejected(t *testing.T) {
	database := setupTestDB(t)

	records := []Record{
		{Kind: "deal", Data: []byte(dealJSON("d1", "Qualified", 15))},
		{Kind: "deal", Data: []byte(dealJSON("d1", "Qualified", 15))},
	}

	report, err := Import(context.Background(), database, records, Options{})
	require.NoError(t, err)
	require.Len(t, report.Accepted, 1)
	require.Len(t, report.Rejected, 1)
	assert.NotEmpty(t, report.Rejected[0].Error)
}

func TestImportCancelled(t *testing.T) {
	database := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Import(ctx, database, []Record{{Kind: "deal", Data: []byte(dealJSON("d1", "Qualified", 15))}}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportAbortOnStoreErrorRollsBack(t *testing.T) {
	database := setupTestDB(t)

	records := []Record{
		{Kind: "deal", Data: []byte(dealJSON("d1", "Qualified", 15))},
		{Kind: "deal", Data: []byte(dealJSON("d2", "NDA Sent", 25))},
		{Kind: "deal", Data: []byte(dealJSON("d1", "Qualified", 15))},
	}

	report, err := Import(context.Background(), database, records, Options{Workers: 2, AbortOnError: true})
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Empty(t, report.Accepted)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 2, report.Rejected[0].Index)
	assert.NotEmpty(t, report.Rejected[0].Error)

	deals, err := db.FindDeals(database, db.DealFilter{})
	require.NoError(t, err)
	assert.Empty(t, deals, "earlier writes are rolled back")
}

func TestImportKeepsCreatedAt(t *testing.T) {
	database := setupTestDB(t)

	data := strings.TrimSuffix(dealJSON("d1", "Qualified", 15), "}") + `,"createdAt":"2024-03-01T09:30:00Z"}`
	report, err := Import(context.Background(), database, []Record{{Kind: "deal", Data: []byte(data)}}, Options{})
	require.NoError(t, err)
	require.True(t, report.OK())

	deal, err := db.GetDeal(database, "d1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T09:30:00Z", deal.CreatedAt)
}
