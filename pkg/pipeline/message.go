package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

// Message is the QTO message handed to downstream cost systems.
type Message struct {
	Project      string            `json:"project"`
	Filename     string            `json:"filename"`
	FileID       string            `json:"file_id"`
	Timestamp    string            `json:"timestamp"`
	ElementCount int               `json:"element_count"`
	Elements     []takeoff.Element `json:"elements"`
}

// ProjectName returns project, or the filename up to its first dot when
// project is blank.
func ProjectName(project, filename string) string {
	if p := strings.TrimSpace(project); p != "" {
		return p
	}
	base := filepath.Base(filename)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// NewMessage formats elements as a QTO message. The file id is
// "<project>/<filename>".
func NewMessage(project, filename string, elements []takeoff.Element, now time.Time) Message {
	project = ProjectName(project, filename)
	if elements == nil {
		elements = []takeoff.Element{}
	}
	return Message{
		Project:      project,
		Filename:     filename,
		FileID:       project + "/" + filename,
		Timestamp:    now.UTC().Format(time.RFC3339),
		ElementCount: len(elements),
		Elements:     elements,
	}
}
