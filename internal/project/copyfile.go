package project

import (
	"fmt"
	"io"
	"os"
)

// AddCopyFile registers a copy rule for this project, applied after
// every sync: once src (a path inside the work tree) exists, it is copied to
// the absolute path dst and made read-only.
func (p *Project) AddCopyFile(src, dst string) {
	p.CopyFiles = append(p.CopyFiles, CopyFile{Src: src, Dst: dst})
}

// ApplyCopyFiles runs every registered copy rule, skipping any whose
// destination is already up to date. A copy failure is reported but does
// not stop the remaining rules from running.
func (p *Project) ApplyCopyFiles() {
	for _, cf := range p.CopyFiles {
		if err := copyFile(cf.Src, cf.Dst); err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot copy file %s to %s: %v\n", cf.Src, cf.Dst, err)
		}
	}
}

func copyFile(src, dst string) error {
	same, err := filesEqual(src, dst)
	if err == nil && same {
		return nil
	}

	if _, err := os.Stat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	info, err := os.Stat(dst)
	if err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode()&^0222)
}

func filesEqual(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, nil
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	fa, err := os.ReadFile(a)
	if err != nil {
		return false, err
	}
	fb, err := os.ReadFile(b)
	if err != nil {
		return false, nil
	}
	return string(fa) == string(fb), nil
}
