// Package drive uploads finished book artifacts to Google Drive, one
// folder per book.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Uploader wraps the Drive API for book artifact uploads.
type Uploader struct {
	svc         *gdrive.Service
	sharePublic bool
	logger      *slog.Logger
}

// Config holds Drive credentials and behavior.
type Config struct {
	CredentialsFile string // OAuth client secrets JSON
	TokenFile       string // Cached user token JSON
	SharePublic     bool   // Grant anyone-with-link read access to book folders
}

// New creates an Uploader from an OAuth client secret file and a
// previously issued user token. Token acquisition is a one-time
// interactive step done outside the pipeline.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Uploader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	secretJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(secretJSON, gdrive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}

	tok, err := readToken(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive token (run the auth flow first): %w", err)
	}

	svc, err := gdrive.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Uploader{
		svc:         svc,
		sharePublic: cfg.SharePublic,
		logger:      logger,
	}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	return tok, nil
}

// CreateFolder creates a Drive folder named "Book - <title>" and
// returns its ID.
func (u *Uploader) CreateFolder(title string) (string, error) {
	folder, err := u.svc.Files.Create(&gdrive.File{
		Name:     "Book - " + title,
		MimeType: folderMimeType,
	}).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("failed to create drive folder: %w", err)
	}

	u.logger.Info("drive folder created", "title", title, "id", folder.Id)
	return folder.Id, nil
}

// UploadFile uploads one local file into a folder and returns the file
// ID.
func (u *Uploader) UploadFile(folderID, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	file, err := u.svc.Files.Create(&gdrive.File{
		Name:    filepath.Base(localPath),
		Parents: []string{folderID},
	}).Media(f, googleapi.ContentType(MIMEType(localPath))).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	return file.Id, nil
}

// UploadBook creates the book folder, uploads every existing path from
// paths, and returns the folder ID plus a shareable link. Missing
// files are skipped with a warning rather than failing the upload.
func (u *Uploader) UploadBook(title string, paths []string) (string, string, error) {
	folderID, err := u.CreateFolder(title)
	if err != nil {
		return "", "", err
	}

	uploaded := 0
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			u.logger.Warn("skipping missing artifact", "path", path)
			continue
		}
		if _, err := u.UploadFile(folderID, path); err != nil {
			u.logger.Warn("artifact upload failed", "path", path, "error", err)
			continue
		}
		uploaded++
	}

	if u.sharePublic {
		if err := u.SharePublic(folderID); err != nil {
			u.logger.Warn("folder sharing failed, files remain private", "error", err)
		}
	}

	u.logger.Info("book uploaded", "title", title, "files", uploaded, "folder", folderID)
	return folderID, FolderLink(folderID), nil
}

// SharePublic grants anyone-with-link read access to a folder.
func (u *Uploader) SharePublic(folderID string) error {
	_, err := u.svc.Permissions.Create(folderID, &gdrive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to share folder %s: %w", folderID, err)
	}
	return nil
}

// FolderLink returns the browser URL for a folder ID.
func FolderLink(folderID string) string {
	return "https://drive.google.com/drive/folders/" + folderID
}

// ListFolder returns the names of files inside a folder.
func (u *Uploader) ListFolder(folderID string) ([]string, error) {
	result, err := u.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}

	names := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		names = append(names, f.Name)
	}
	return names, nil
}

// DeleteFile permanently removes a file or folder by ID.
func (u *Uploader) DeleteFile(fileID string) error {
	if err := u.svc.Files.Delete(fileID).Do(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", fileID, err)
	}
	return nil
}
