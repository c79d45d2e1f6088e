package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(Dataset{
		Columns: []string{"Group", "Room"},
		Records: [][]string{
			{"alpha", "Hall A"},
			{"beta, the second", "Hall B"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Group,Room", lines[0])
	assert.Equal(t, `"beta, the second",Hall B`, lines[2])
}

func TestCSVExporterRejectsRaggedRecords(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{
		Columns: []string{"Group", "Room"},
		Records: [][]string{{"alpha"}},
	})
	assert.Error(t, err)
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(Dataset{
		Columns: []string{"Group", "Room"},
		Records: [][]string{{"alpha", "Hall A"}},
	}, "Agenda sched-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
