package convert

import (
	"io"
	"os"
	"path/filepath"
)

type staged struct {
	tmp    string
	dst    string
	backup string // previous dst moved aside during commit
}

// stage collects output files written to temporary siblings until commit.
type stage struct {
	files []staged
}

// create writes one output to a temporary file next to dst.
func (s *stage) create(dst string, write func(w io.Writer) error) error {
	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: dst, Err: err}
	}
	s.files = append(s.files, staged{tmp: out.Name(), dst: dst})

	if err := write(out); err != nil {
		out.Close()
		return &IOError{Op: "write", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &IOError{Op: "close", Path: dst, Err: err}
	}
	return nil
}

// commit renames every staged file into place. Existing destinations are
// moved aside first; if any rename fails, the files already placed are
// removed, the previous destinations restored and the rest discarded.
func (s *stage) commit() error {
	for i := range s.files {
		f := &s.files[i]
		if _, err := os.Lstat(f.dst); err == nil {
			f.backup = f.tmp + ".old"
			if err := os.Rename(f.dst, f.backup); err != nil {
				f.backup = ""
				s.rollback(i)
				return &IOError{Op: "rename", Path: f.dst, Err: err}
			}
		}
		if err := os.Rename(f.tmp, f.dst); err != nil {
			s.rollback(i + 1)
			return &IOError{Op: "rename", Path: f.dst, Err: err}
		}
	}
	for _, f := range s.files {
		if f.backup != "" {
			os.Remove(f.backup)
		}
	}
	s.files = nil
	return nil
}

// rollback undoes the first n entries of a failed commit and discards the
// remaining temporary files. Entry n-1 may have its backup taken but its
// rename not done.
func (s *stage) rollback(n int) {
	for i := n - 1; i >= 0; i-- {
		f := s.files[i]
		if _, err := os.Lstat(f.tmp); err != nil {
			os.Remove(f.dst)
		}
		if f.backup != "" {
			os.Rename(f.backup, f.dst)
		}
	}
	s.discard()
}

// discard removes every staged file not yet renamed.
func (s *stage) discard() {
	for _, f := range s.files {
		os.Remove(f.tmp)
	}
	s.files = nil
}
