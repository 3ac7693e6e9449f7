package in

import (
	"fmt"
	"os"
	"path/filepath"

	"vgdesk/internal/modules/analysis/dto"
)

// FileFromPath describes a local video for SetFile.
func FileFromPath(path string) (*dto.FileInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &dto.FileInput{Name: info.Name(), Path: abs, Size: info.Size()}, nil
}
