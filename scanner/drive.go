package scanner

import (
	"context"
	"log/slog"

	"backup-check/models"
)

type Options struct {
	// AllPages follows nextPageToken when listing a folder. Without it only
	// the first ChildrenPageSize entries of each folder are examined.
	AllPages bool
	Matcher  *Matcher
}

type DriveScanner struct {
	lister   Lister
	matcher  *Matcher
	allPages bool
}

func NewDriveScanner(lister Lister, opts Options) *DriveScanner {
	matcher := opts.Matcher
	if matcher == nil {
		matcher = NewMatcher(nil)
	}

	return &DriveScanner{
		lister:   lister,
		matcher:  matcher,
		allPages: opts.AllPages,
	}
}

// ResolveFolder returns the first folder, in the order Drive returns them,
// whose name contains client.
func (d *DriveScanner) ResolveFolder(ctx context.Context, client string) (string, bool, error) {
	folders, err := d.lister.FindFolders(ctx, client)
	if err != nil {
		return "", false, err
	}

	if len(folders) == 0 {
		slog.Info("no folder found", "client", client)
		return "", false, nil
	}

	if len(folders) > 1 {
		slog.Debug("several folders match, using the first", "client", client, "matches", len(folders), "folder", folders[0].Name)
	}

	return folders[0].ID, true, nil
}

// Search walks folderID depth-first and collects the archives modified on date.
func (d *DriveScanner) Search(ctx context.Context, folderID, client string, date models.TargetDate) ([]models.Match, error) {
	slog.Debug("searching folder", "client", client, "folder", folderID)

	var matches []models.Match
	pageToken := ""

	for {
		files, next, err := d.lister.ListChildren(ctx, folderID, pageToken)
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			if file.MimeType == FolderMimeType {
				sub, err := d.Search(ctx, file.ID, client, date)
				if err != nil {
					return nil, err
				}
				matches = append(matches, sub...)
				continue
			}

			if match, ok := d.matcher.Match(file, client, date); ok {
				slog.Info("archive found", "client", client, "file", file.Name, "modified", match.Modified)
				matches = append(matches, match)
			}
		}

		if !d.allPages || next == "" {
			if next != "" {
				slog.Warn("folder has more entries than one page, remaining entries skipped", "client", client, "folder", folderID)
			}
			break
		}
		pageToken = next
	}

	return matches, nil
}
