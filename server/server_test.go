package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalstat/lifelens/dataset"
	"github.com/vitalstat/lifelens/explore"
)

func testTable(t *testing.T) *dataset.Wide {
	t.Helper()
	return dataset.FromLong([]dataset.Row{
		{Country: "Sweden", Year: 1900, Value: 52.2},
		{Country: "Sweden", Year: 2000, Value: 79.8},
		{Country: "Norway", Year: 1900, Value: 54.0},
		{Country: "Norway", Year: 2000, Value: 78.7},
	})
}

type frame struct {
	Kind      string          `json:"kind"`
	Session   string          `json:"session"`
	Countries []string        `json:"countries"`
	Error     string          `json:"error"`
	Payload   json.RawMessage `json:"payload"`
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHealthz(t *testing.T) {
	srv := New(testTable(t), zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebsocketSession(t *testing.T) {
	srv := New(testTable(t), zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)

	t.Run("meta then initial view", func(t *testing.T) {
		m := readFrame(t, conn)
		assert.Equal(t, "meta", m.Kind)
		assert.NotEmpty(t, m.Session)
		assert.Equal(t, []string{"Sweden", "Norway"}, m.Countries)

		assert.Equal(t, "plot", readFrame(t, conn).Kind)

		table := readFrame(t, conn)
		assert.Equal(t, "table", table.Kind)

		var payload explore.TablePayload
		require.NoError(t, json.Unmarshal(table.Payload, &payload))
		assert.Len(t, payload.Rows, 4)
	})

	t.Run("input narrows the view", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(explore.Input{Countries: []string{"Sweden"}}))

		assert.Equal(t, "plot", readFrame(t, conn).Kind)

		table := readFrame(t, conn)
		require.Equal(t, "table", table.Kind)

		var payload explore.TablePayload
		require.NoError(t, json.Unmarshal(table.Payload, &payload))
		require.Len(t, payload.Rows, 2)
		assert.Equal(t, "Sweden", payload.Rows[0].Country)
	})

	t.Run("bad input yields an error frame and keeps the session", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(explore.Input{Countries: []string{"Atlantis"}}))

		errf := readFrame(t, conn)
		assert.Equal(t, "error", errf.Kind)
		assert.Contains(t, errf.Error, "unknown country")

		// still alive: a valid input still renders
		require.NoError(t, conn.WriteJSON(explore.Input{Countries: []string{"Norway"}}))
		assert.Equal(t, "plot", readFrame(t, conn).Kind)
		assert.Equal(t, "table", readFrame(t, conn).Kind)
	})
}

func TestSessionsAreIndependent(t *testing.T) {
	srv := New(testTable(t), zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c1 := dial(t, ts)
	c2 := dial(t, ts)

	m1 := readFrame(t, c1)
	m2 := readFrame(t, c2)
	assert.NotEqual(t, m1.Session, m2.Session)

	// drain both initial views
	for i := 0; i < 2; i++ {
		readFrame(t, c1)
		readFrame(t, c2)
	}

	// narrowing one session renders only there
	require.NoError(t, c1.WriteJSON(explore.Input{Countries: []string{"Sweden"}}))
	assert.Equal(t, "plot", readFrame(t, c1).Kind)
	assert.Equal(t, "table", readFrame(t, c1).Kind)
}
