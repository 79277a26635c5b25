// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/keep2org/pkg/types"
)

// copyAttachments copies a note's attachment files from the export directory
// into the output directory. The export sometimes records a path whose file
// was saved with a jpg or jpeg extension instead, so those are tried next.
// A reference with no file under any candidate name is skipped; the note
// still renders the link.
func copyAttachments(inputDir, outputDir string, n types.Note) (copied, missing int, err error) {
	for _, att := range n.Attachments {
		src, ok := resolveAttachment(inputDir, att.FilePath)
		if !ok {
			missing++
			continue
		}
		dst := filepath.Join(outputDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return copied, missing, err
		}
		copied++
	}
	return copied, missing, nil
}

// resolveAttachment returns the first existing candidate path for an
// attachment reference: the recorded path, then the same path with its
// extension swapped for jpg, then jpeg.
func resolveAttachment(inputDir, relPath string) (string, bool) {
	stem := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	for _, candidate := range []string{relPath, stem + ".jpg", stem + ".jpeg"} {
		full := filepath.Join(inputDir, candidate)
		if _, err := os.Stat(full); err == nil {
			return full, true
		}
	}
	return "", false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening attachment %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
