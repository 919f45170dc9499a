package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		input   string
		want    NodeKind
		wantErr bool
	}{
		{input: "database", want: NodeKindDatabase},
		{input: "Database", want: NodeKindDatabase},
		{input: "API Endpoint", want: NodeKindAPIEndpoint},
		{input: "api-endpoint", want: NodeKindAPIEndpoint},
		{input: "apiendpoint", want: NodeKindAPIEndpoint},
		{input: "ui_component", want: NodeKindUIComponent},
		{input: "entity", want: NodeKindEntity},
		{input: "start", want: NodeKindStart},
		{input: "queue", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNodeKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNodeKind_IsDataEntity(t *testing.T) {
	for _, kind := range AllNodeKinds() {
		want := kind == NodeKindDatabase || kind == NodeKindEntity
		assert.Equal(t, want, kind.IsDataEntity(), kind.String())
	}
}

func TestNodeKind_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Kind NodeKind `json:"kind"`
	}{NodeKindUIComponent})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"ui_component"}`, string(data))

	var decoded struct {
		Kind NodeKind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"api_endpoint"}`), &decoded))
	assert.Equal(t, NodeKindAPIEndpoint, decoded.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"widget"}`), &decoded))
}

func TestNodeKind_DefaultLabel(t *testing.T) {
	assert.Equal(t, "Database", NodeKindDatabase.DefaultLabel())
	assert.Equal(t, "API Endpoint", NodeKindAPIEndpoint.DefaultLabel())
	assert.Equal(t, "UI Component", NodeKindUIComponent.DefaultLabel())
}
