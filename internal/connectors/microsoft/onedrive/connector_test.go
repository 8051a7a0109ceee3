package onedrive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
)

type staticTokenProvider struct{}

func (staticTokenProvider) GetToken(_ context.Context) (string, error) {
	return "test-token", nil
}

// fakeDrive scripts the Graph endpoints the connector touches.
type fakeDrive struct {
	t *testing.T

	templateExists bool
	uploadedBytes  int
	copyPolls      int
	pollsRequired  int
	copyName       string
	patches        []patchCall
	missingSheets  map[string]bool
}

type patchCall struct {
	sheet   string
	address string
	values  []any
}

func (d *fakeDrive) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case r.Method == "GET" && path == "/me/drive/special/approot:/allowance-template.xlsx":
			if d.templateExists {
				_, _ = w.Write([]byte(`{"id":"tmpl-1"}`))
			} else {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":{"code":"itemNotFound","message":"not found"}}`))
			}

		case r.Method == "PUT" && path == "/me/drive/special/approot:/allowance-template.xlsx:/content":
			body, _ := json.Marshal(map[string]string{"id": "tmpl-1"})
			d.templateExists = true
			d.uploadedBytes = int(r.ContentLength)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)

		case r.Method == "GET" && strings.HasPrefix(path, "/me/drive/root"):
			_, _ = w.Write([]byte(`{"id":"folder-1"}`))

		case r.Method == "POST" && path == "/me/drive/special/approot:/allowance-template.xlsx:/copy":
			var body struct {
				Name            string            `json:"name"`
				ParentReference map[string]string `json:"parentReference"`
			}
			require.NoError(d.t, json.NewDecoder(r.Body).Decode(&body))
			d.copyName = body.Name
			assert.Equal(d.t, "folder-1", body.ParentReference["id"])
			w.Header().Set("Location", "http://"+r.Host+"/monitor/copy-1")
			w.WriteHeader(http.StatusAccepted)

		case r.Method == "GET" && path == "/monitor/copy-1":
			d.copyPolls++
			if d.copyPolls < d.pollsRequired {
				_, _ = w.Write([]byte(`{"status":"inProgress"}`))
			} else {
				_, _ = w.Write([]byte(`{"status":"completed","resourceId":"item-1"}`))
			}

		case r.Method == "GET" && strings.Contains(path, "/workbook/worksheets('") &&
			strings.HasSuffix(path, "/usedRange"):
			sheet := sheetFromPath(path)
			if d.missingSheets[sheet] {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":{"code":"ItemNotFound","message":"no sheet"}}`))
				return
			}
			used := usedRange{
				RowIndex:    0,
				ColumnIndex: 0,
				Values: [][]any{
					{"出張旅費精算書", "", "", "", "", ""},
					{"日にち", "出張先", "出発", "始業", "終業", "帰着"},
					{"2024/04/01", "Nagoya", "x", "x", "x", "x"},
				},
			}
			require.NoError(d.t, json.NewEncoder(w).Encode(used))

		case r.Method == "PATCH" && strings.Contains(path, "/range(address="):
			var body struct {
				Values [][]any `json:"values"`
			}
			require.NoError(d.t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(d.t, body.Values, 1)
			d.patches = append(d.patches, patchCall{
				sheet:   sheetFromPath(path),
				address: addressFromPath(path),
				values:  body.Values[0],
			})
			_, _ = w.Write([]byte(`{}`))

		case r.Method == "GET" && strings.HasPrefix(path, "/me/drive/items/item-1"):
			_, _ = w.Write([]byte(`{"id":"item-1","webUrl":"https://onedrive.example/item-1"}`))

		default:
			d.t.Errorf("unexpected request: %s %s", r.Method, path)
			w.WriteHeader(http.StatusTeapot)
		}
	})
}

func sheetFromPath(path string) string {
	start := strings.Index(path, "worksheets('") + len("worksheets('")
	end := strings.Index(path[start:], "')")
	return path[start : start+end]
}

func addressFromPath(path string) string {
	start := strings.Index(path, "address='") + len("address='")
	end := strings.Index(path[start:], "'")
	return path[start : start+end]
}

func newTestConnector(t *testing.T, drive *fakeDrive, templatePath string) *Connector {
	t.Helper()
	server := httptest.NewServer(drive.handler())
	t.Cleanup(server.Close)

	client := microsoft.NewClient(staticTokenProvider{}, microsoft.ServiceOneDrive)
	client.BaseURL = server.URL
	conn := New(client, templatePath, "")
	conn.pollInterval = time.Millisecond
	return conn
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFillTemplate_SingleDay(t *testing.T) {
	drive := &fakeDrive{
		t:              t,
		templateExists: true,
		pollsRequired:  1,
		missingSheets:  map[string]bool{},
	}
	conn := newTestConnector(t, drive, "unused.xlsx")

	webURL, err := conn.FillTemplate(context.Background(), driven.FillSpec{
		Dates:       []time.Time{date(2024, time.June, 3)},
		Destination: "Osaka",
		FamilyName:  "Yamada",
		Target:      "Documents/Trips",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://onedrive.example/item-1", webURL)
	assert.Equal(t, "BT-Allowance-Yamada-20240603.xlsx", drive.copyName)

	require.Len(t, drive.patches, 1, "one-day trip writes the one-day sheet only")
	patch := drive.patches[0]
	assert.Equal(t, "日帰り One-Day", patch.sheet)
	assert.Equal(t, "A4:F4", patch.address, "first blank row after the existing entry")
	assert.Equal(t, []any{
		"2024/06/03", "Osaka",
		"2024/06/03 07:00", "2024/06/03 09:00", "2024/06/03 18:00", "2024/06/03 21:00",
	}, patch.values)
}

func TestFillTemplate_MultiDayWritesBothSheets(t *testing.T) {
	drive := &fakeDrive{
		t:              t,
		templateExists: true,
		pollsRequired:  1,
		missingSheets:  map[string]bool{},
	}
	conn := newTestConnector(t, drive, "unused.xlsx")

	_, err := conn.FillTemplate(context.Background(), driven.FillSpec{
		Dates:       []time.Time{date(2024, time.June, 3), date(2024, time.June, 4)},
		Destination: "Osaka",
		FamilyName:  "Yamada",
	})

	require.NoError(t, err)
	require.Len(t, drive.patches, 4, "two dates in each of two sheets")
	assert.Equal(t, "日帰り One-Day", drive.patches[0].sheet)
	assert.Equal(t, "A4:F4", drive.patches[0].address)
	assert.Equal(t, "A5:F5", drive.patches[1].address)
	assert.Equal(t, "宿泊 Overnight", drive.patches[2].sheet)
}

func TestFillTemplate_MissingOvernightSheetSkipped(t *testing.T) {
	drive := &fakeDrive{
		t:              t,
		templateExists: true,
		pollsRequired:  1,
		missingSheets:  map[string]bool{"宿泊 Overnight": true},
	}
	conn := newTestConnector(t, drive, "unused.xlsx")

	_, err := conn.FillTemplate(context.Background(), driven.FillSpec{
		Dates:       []time.Time{date(2024, time.June, 3), date(2024, time.June, 4)},
		Destination: "Osaka",
		FamilyName:  "Yamada",
	})

	require.NoError(t, err)
	for _, patch := range drive.patches {
		assert.Equal(t, "日帰り One-Day", patch.sheet)
	}
}

func TestFillTemplate_UploadsTemplateWhenMissing(t *testing.T) {
	templateFile := t.TempDir() + "/template.xlsx"
	require.NoError(t, os.WriteFile(templateFile, []byte("workbook-bytes"), 0o600))

	drive := &fakeDrive{
		t:             t,
		pollsRequired: 1,
		missingSheets: map[string]bool{},
	}
	conn := newTestConnector(t, drive, templateFile)

	_, err := conn.FillTemplate(context.Background(), driven.FillSpec{
		Dates:      []time.Time{date(2024, time.June, 3)},
		FamilyName: "Yamada",
	})

	require.NoError(t, err)
	assert.True(t, drive.templateExists)
	assert.Equal(t, len("workbook-bytes"), drive.uploadedBytes)
}

func TestFillTemplate_PollsUntilCopyCompletes(t *testing.T) {
	drive := &fakeDrive{
		t:              t,
		templateExists: true,
		pollsRequired:  3,
		missingSheets:  map[string]bool{},
	}
	conn := newTestConnector(t, drive, "unused.xlsx")

	_, err := conn.FillTemplate(context.Background(), driven.FillSpec{
		Dates:      []time.Time{date(2024, time.June, 3)},
		FamilyName: "Yamada",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, drive.copyPolls)
}

func TestFillTemplate_NoDates(t *testing.T) {
	conn := New(microsoft.NewClient(staticTokenProvider{}, microsoft.ServiceOneDrive), "x", "")

	_, err := conn.FillTemplate(context.Background(), driven.FillSpec{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trip dates")
}
