package production

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"printdesk/internal/storage"
)

// EvidenceUpload is one file received with a progress submission, already
// read off the multipart form.
type EvidenceUpload struct {
	OriginalName string
	Data         []byte
	UserID       *int64
}

// saveEvidence writes uploads under the uploads dir with uuid names and
// returns the metadata rows to persist alongside the progress update.
func (s *Service) saveEvidence(ticketID int64, uploads []EvidenceUpload) ([]storage.EvidenceFile, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	dir := filepath.Join(s.uploadsDir, fmt.Sprintf("ticket-%d", ticketID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	var files []storage.EvidenceFile
	for _, up := range uploads {
		storedName := uuid.New().String() + filepath.Ext(up.OriginalName)

		if err := os.WriteFile(filepath.Join(dir, storedName), up.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write evidence file: %w", err)
		}

		files = append(files, storage.EvidenceFile{
			TicketID:     ticketID,
			StoredName:   storedName,
			OriginalName: up.OriginalName,
			UserID:       up.UserID,
		})
	}
	return files, nil
}

// removeEvidence deletes saved uploads again when the progress transaction
// they belong to did not commit.
func (s *Service) removeEvidence(ticketID int64, files []storage.EvidenceFile) {
	dir := filepath.Join(s.uploadsDir, fmt.Sprintf("ticket-%d", ticketID))
	for _, f := range files {
		os.Remove(filepath.Join(dir, f.StoredName))
	}
}
