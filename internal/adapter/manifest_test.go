package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/models"
)

const courseContents = `[
  {"id": 1, "modules": [
    {"id": 11, "contents": [
      {"type": "file", "filename": "a.pdf", "filepath": "/", "fileurl": "https://s/pluginfile.php/5/mod_resource/content/3/a.pdf", "filesize": 10, "timemodified": 100},
      {"type": "url", "filename": "link", "fileurl": "https://elsewhere"}
    ]},
    {"id": 12, "contents": [
      {"type": "file", "filename": "b.pdf", "filepath": "/", "fileurl": "https://s/b.pdf", "filesize": 5, "timemodified": 50}
    ]}
  ]}
]`

func TestModuleFiles(t *testing.T) {
	ws := &stubWebService{answer: courseContents}
	c, _ := newTestCache(t, ws)
	manifest := NewFileManifest(c)

	files, err := manifest.ModuleFiles(context.Background(), models.Site{ID: "site-1"}, models.CourseModule{ID: 11, CourseID: 2})

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.pdf", files[0].FileName)
	assert.Equal(t, int64(3), files[0].Revision)
	assert.Equal(t, int64(100), files[0].TimeModified)
}

func TestModuleFiles_UnknownModule(t *testing.T) {
	c, _ := newTestCache(t, &stubWebService{answer: courseContents})

	files, err := NewFileManifest(c).ModuleFiles(context.Background(), models.Site{ID: "site-1"}, models.CourseModule{ID: 99, CourseID: 2})

	require.NoError(t, err)
	assert.Empty(t, files)
}
