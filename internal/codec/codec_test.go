// file: internal/codec/codec_test.go
package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, c *Codec, chunks ...[]byte) []Result {
	t.Helper()
	var all []Result
	for _, chunk := range chunks {
		results, err := c.Decode(chunk)
		require.NoError(t, err)
		all = append(all, results...)
	}
	return all
}

func TestRoundTripFraming(t *testing.T) {
	msgs := []map[string]interface{}{
		{"jsonrpc": "2.0", "id": 1, "method": "ping"},
		{"jsonrpc": "2.0", "id": 2, "method": "initialize", "params": map[string]interface{}{"a": 1}},
	}

	var encoded []byte
	for _, m := range msgs {
		raw, err := json.Marshal(m)
		require.NoError(t, err)
		encoded = append(encoded, Encode(raw)...)
	}

	c := New(1024 * 1024)
	results := decodeAll(t, c, encoded)
	require.Len(t, results, len(msgs))

	for i, r := range results {
		require.NoError(t, r.Err)
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(r.Message, &got))
		assert.EqualValues(t, msgs[i]["id"], got["id"])
		assert.Equal(t, msgs[i]["method"], got["method"])
	}
	assert.Zero(t, c.Buffered())
}

func TestPartialReadTolerance(t *testing.T) {
	raw := []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n" + `{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n")

	whole := New(1024)
	wholeResults := decodeAll(t, whole, raw)

	split := New(1024)
	var splitResults []Result
	for i := 0; i < len(raw); i++ {
		results, err := split.Decode(raw[i : i+1])
		require.NoError(t, err)
		splitResults = append(splitResults, results...)
	}

	require.Len(t, splitResults, len(wholeResults))
	for i := range wholeResults {
		assert.JSONEq(t, string(wholeResults[i].Message), string(splitResults[i].Message))
	}
}

func TestSizeCapRejectsOversizeMessage(t *testing.T) {
	c := New(16)
	oversized := append([]byte(`{"jsonrpc":"2.0","id":1,"method":"x"}`), '\n')

	_, err := c.Decode(oversized)
	require.Error(t, err)
	var tooLarge *MessageTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Zero(t, c.Buffered(), "state must be discarded after MessageTooLarge")
}

func TestSizeCapNeverBuffersMoreThanMax(t *testing.T) {
	c := New(64)
	// Feed a large unterminated chunk that alone exceeds the cap.
	chunk := make([]byte, 100)
	for i := range chunk {
		chunk[i] = 'a'
	}
	_, err := c.Decode(chunk)
	require.Error(t, err)
	assert.LessOrEqual(t, c.Buffered(), 64)
}

func TestPerLineJSONErrorDoesNotKillFraming(t *testing.T) {
	c := New(1024)
	input := []byte("not json at all\n" + `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")

	results, err := c.Decode(input)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	var jsonErr *JSONError
	assert.ErrorAs(t, results[0].Err, &jsonErr)

	require.NoError(t, results[1].Err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(results[1].Message, &got))
	assert.Equal(t, "ping", got["method"])
}

func TestEmptyLinesAreSkipped(t *testing.T) {
	c := New(1024)
	input := []byte("\n\n" + `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n\n")

	results, err := c.Decode(input)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}

func TestTrailingCRIsTolerated(t *testing.T) {
	c := New(1024)
	input := []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\r\n")

	results, err := c.Decode(input)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}

func TestCompactionPreservesUnreadBytes(t *testing.T) {
	c := New(1024 * 1024)

	// Push the cursor past the compaction threshold with many small messages,
	// then feed a message split across the compaction boundary.
	var prefix []byte
	for i := 0; i < 200; i++ {
		raw, _ := json.Marshal(map[string]interface{}{"jsonrpc": "2.0", "id": i, "method": "ping"})
		prefix = append(prefix, Encode(raw)...)
	}
	_, err := c.Decode(prefix)
	require.NoError(t, err)

	// Now feed a message in two halves; compaction must not corrupt it.
	raw, _ := json.Marshal(map[string]interface{}{"jsonrpc": "2.0", "id": 999, "method": "after-compaction"})
	full := Encode(raw)
	mid := len(full) / 2

	results1, err := c.Decode(full[:mid])
	require.NoError(t, err)
	assert.Empty(t, results1)

	results2, err := c.Decode(full[mid:])
	require.NoError(t, err)
	require.Len(t, results2, 1)
	require.NoError(t, results2[0].Err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(results2[0].Message, &got))
	assert.Equal(t, "after-compaction", got["method"])
}
