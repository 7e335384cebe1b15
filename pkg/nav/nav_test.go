package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		path    string
		want    Route
		wantErr bool
	}{
		{path: "/editor", want: Route{Root: EditorPath}},
		{path: "/editor/abc", want: Route{Root: EditorPath, ID: "abc"}},
		{path: "/wizard", want: Route{Root: WizardPath}},
		{path: "/wizard/abc/", want: Route{Root: WizardPath, ID: "abc"}},
		{path: "/dashboard", wantErr: true},
		{path: "/editor/a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Parse(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "/editor", EditorFor(""))
	assert.Equal(t, "/editor/x", EditorFor("x"))
	assert.Equal(t, "/wizard/y", WizardFor("y"))
}

func TestRouter(t *testing.T) {
	r := NewRouter()

	var got []Route
	r.Handle(EditorPath, func(route Route) { got = append(got, route) })

	r.Navigate("/editor/w1")
	r.Navigate("/wizard")
	r.Navigate("/nowhere")

	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)
	assert.Equal(t, []string{"/editor/w1", "/wizard", "/nowhere"}, r.History())
}
