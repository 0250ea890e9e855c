package scanner

import (
	"context"
	"fmt"
	"strings"

	"backup-check/models"

	"google.golang.org/api/drive/v3"
)

const (
	FolderMimeType = "application/vnd.google-apps.folder"
	ZipMimeType    = "application/zip"

	// ChildrenPageSize is the largest page files.list accepts.
	ChildrenPageSize = 1000
)

// Lister is the part of the Drive API the scanner depends on.
type Lister interface {
	FindFolders(ctx context.Context, nameContains string) ([]models.RemoteFile, error)
	ListChildren(ctx context.Context, folderID, pageToken string) ([]models.RemoteFile, string, error)
}

type DriveLister struct {
	service *drive.Service
}

func NewDriveLister(service *drive.Service) *DriveLister {
	return &DriveLister{service: service}
}

func (d *DriveLister) FindFolders(ctx context.Context, nameContains string) ([]models.RemoteFile, error) {
	query := fmt.Sprintf("name contains '%s' and mimeType = '%s'", escapeQuery(nameContains), FolderMimeType)

	response, err := d.service.Files.List().
		Q(query).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	return toRemoteFiles(response.Files), nil
}

func (d *DriveLister) ListChildren(ctx context.Context, folderID, pageToken string) ([]models.RemoteFile, string, error) {
	query := fmt.Sprintf("'%s' in parents", escapeQuery(folderID))

	call := d.service.Files.List().
		Q(query).
		PageSize(ChildrenPageSize).
		Fields("nextPageToken, files(id, name, modifiedTime, mimeType)").
		Context(ctx)

	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, "", &QueryError{Query: query, Err: err}
	}

	return toRemoteFiles(response.Files), response.NextPageToken, nil
}

func toRemoteFiles(files []*drive.File) []models.RemoteFile {
	remote := make([]models.RemoteFile, 0, len(files))
	for _, f := range files {
		remote = append(remote, models.RemoteFile{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
		})
	}
	return remote
}

// escapeQuery escapes a value for use inside a quoted Drive query string.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
