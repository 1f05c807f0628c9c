package adapter

import (
	"context"
	"strconv"

	"github.com/MKhiriev/go-course-sync/models"
)

const courseContentsFunction = "core_course_get_contents"

type courseSection struct {
	ID      int64           `json:"id"`
	Modules []sectionModule `json:"modules"`
}

type sectionModule struct {
	ID       int64           `json:"id"`
	Contents []moduleContent `json:"contents"`
}

type moduleContent struct {
	Type         string `json:"type"`
	FileName     string `json:"filename"`
	FilePath     string `json:"filepath"`
	FileURL      string `json:"fileurl"`
	FileSize     int64  `json:"filesize"`
	TimeModified int64  `json:"timemodified"`
}

type wsFileManifest struct {
	ws CachedWebService
}

// NewFileManifest returns a [FileManifest] reading module contents through
// the cached web service.
func NewFileManifest(ws CachedWebService) FileManifest {
	return &wsFileManifest{ws: ws}
}

// CourseContentsCacheKey is the cache key of the contents of a course.
func CourseContentsCacheKey(courseID int64) string {
	return "course:contents:" + strconv.FormatInt(courseID, 10)
}

// ModuleFiles implements [FileManifest]. Only entries of type "file" are
// returned; URLs and folders are not downloadable content.
func (m *wsFileManifest) ModuleFiles(ctx context.Context, site models.Site, module models.CourseModule) ([]models.RemoteFile, error) {
	params := map[string]any{
		"courseid": module.CourseID,
		"options": []map[string]any{
			{"name": "cmid", "value": module.ID},
		},
	}
	preSets := DefaultPreSets()
	preSets.CacheKey = CourseContentsCacheKey(module.CourseID)

	var sections []courseSection
	if err := m.ws.CachedCall(ctx, site, courseContentsFunction, params, &sections, preSets); err != nil {
		return nil, err
	}

	var files []models.RemoteFile
	for _, section := range sections {
		for _, mod := range section.Modules {
			if mod.ID != module.ID {
				continue
			}
			for _, c := range mod.Contents {
				if c.Type != "file" {
					continue
				}
				files = append(files, models.RemoteFile{
					FileName:     c.FileName,
					FilePath:     c.FilePath,
					FileURL:      c.FileURL,
					FileSize:     c.FileSize,
					TimeModified: c.TimeModified,
					Revision:     models.RevisionFromURL(c.FileURL),
				})
			}
		}
	}
	return files, nil
}
