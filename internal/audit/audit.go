package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/PolarWolf314/rimu/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`                  // RFC3339 with microseconds.
	User      string `json:"user"`                // OS username performing action.
	RepoUUID  string `json:"repo_uuid,omitempty"` // UUID of this rimu install.
	Operation string `json:"op"`                  // Operation name.

	// Optional fields depending on operation.
	Identity    string `json:"identity,omitempty"`     // For config add/remove identity.
	Getter      string `json:"getter,omitempty"`       // For config add/remove getter.
	Executable  string `json:"executable,omitempty"`   // For init (filter command target).
	PolicyPath  string `json:"policy_path,omitempty"`  // For init when the template was written.
	PurgedCount int    `json:"purged_count,omitempty"` // For deinit/purge (cache records removed).
}

// Log appends an entry to the audit log.
// If logging fails, the operation continues without error.
// Setup commands should not fail just because audit logging failed.
func Log(entry Entry) {
	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := configs.RepoRimuSettings.AuditLogPath
	if logPath == "" {
		// Repository settings not initialized, skip logging.
		return
	}

	// Open file for appending (create if doesn't exist).
	// #nosec G306 -- the log lives under .git and records no secret material.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// Log warning but don't fail the operation.
		return
	}
	defer f.Close()

	// Marshal entry to JSON.
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Write entry with newline.
	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser is a convenience function that populates the user and
// repository fields from the loaded settings.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}
	entry.User = configs.UserRimuSettings.Username

	localConfig, err := configs.LoadLocalConfig()
	if err != nil {
		return entry
	}
	entry.RepoUUID = localConfig.RepoUUID

	return entry
}

// LogPath returns the path to the audit log file.
// Returns empty string if repository settings are not initialized.
func LogPath() string {
	return configs.RepoRimuSettings.AuditLogPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
