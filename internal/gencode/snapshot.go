package gencode

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileFingerprint holds stat-based identity for a source file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Fingerprint creates a FileFingerprint from an on-disk file.
func Fingerprint(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Snapshot manages a gob-serialized copy of a parsed annotation on disk,
// so repeat runs skip GTF parsing:
//
//	<dir>/transcripts.gob       (serialized transcripts)
//	<dir>/transcripts.gob.meta  (source file fingerprints)
type Snapshot struct {
	dir string
}

// NewSnapshot creates a snapshot handle for the given directory.
func NewSnapshot(dir string) *Snapshot {
	return &Snapshot{dir: dir}
}

func (sn *Snapshot) gobPath() string {
	return filepath.Join(sn.dir, "transcripts.gob")
}

func (sn *Snapshot) metaPath() string {
	return filepath.Join(sn.dir, "transcripts.gob.meta")
}

// Valid checks whether the snapshot matches the current GTF source file.
func (sn *Snapshot) Valid(gtf FileFingerprint) bool {
	meta, err := sn.readMeta()
	if err != nil {
		return false
	}

	checks := []struct{ key, val string }{
		{"gtf_size", strconv.FormatInt(gtf.Size, 10)},
		{"gtf_modtime", gtf.ModTime.UTC().Format(time.RFC3339Nano)},
	}
	for _, c := range checks {
		if meta[c.key] != c.val {
			return false
		}
	}

	if _, err := os.Stat(sn.gobPath()); err != nil {
		return false
	}
	return true
}

// Load reads serialized transcripts from disk into the set.
func (sn *Snapshot) Load(s *Set) error {
	f, err := os.Open(sn.gobPath())
	if err != nil {
		return fmt.Errorf("open transcript snapshot: %w", err)
	}
	defer f.Close()

	var data map[string][]*Transcript
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return fmt.Errorf("decode transcript snapshot: %w", err)
	}

	for _, transcripts := range data {
		for _, t := range transcripts {
			s.Add(t)
		}
	}
	return nil
}

// Write serializes all transcripts from the set to disk.
func (sn *Snapshot) Write(s *Set, gtf FileFingerprint) error {
	data := make(map[string][]*Transcript)
	for _, chrom := range s.Chromosomes() {
		data[chrom] = s.ByChrom(chrom)
	}

	f, err := os.Create(sn.gobPath())
	if err != nil {
		return fmt.Errorf("create transcript snapshot: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		os.Remove(sn.gobPath())
		return fmt.Errorf("encode transcript snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close transcript snapshot: %w", err)
	}

	return sn.writeMeta(gtf)
}

// Clear removes the snapshot files.
func (sn *Snapshot) Clear() {
	os.Remove(sn.gobPath())
	os.Remove(sn.metaPath())
}

func (sn *Snapshot) writeMeta(gtf FileFingerprint) error {
	lines := []string{
		"gtf_size=" + strconv.FormatInt(gtf.Size, 10),
		"gtf_modtime=" + gtf.ModTime.UTC().Format(time.RFC3339Nano),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(sn.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (sn *Snapshot) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(sn.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
