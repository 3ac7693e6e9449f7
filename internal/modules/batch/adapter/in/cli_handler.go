package in

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vgdesk/internal/modules/batch/dto"
	batchin "vgdesk/internal/modules/batch/port/in"
)

type CLIHandler struct {
	usecase batchin.Usecase
}

func NewCLIHandler(usecase batchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Run analyses every video under paths. Directories contribute the files
// whose extension is in exts, sorted by name.
func (h CLIHandler) Run(ctx context.Context, paths []string, exts []string, query string, onProgress func(dto.ProgressOutput)) (dto.StateOutput, error) {
	files, err := CollectFiles(paths, exts)
	if err != nil {
		return dto.StateOutput{}, err
	}
	if onProgress != nil {
		stop := h.usecase.OnProgress(onProgress)
		defer stop()
	}
	if err := h.usecase.SetFiles(ctx, files); err != nil {
		return dto.StateOutput{}, err
	}
	h.usecase.SetQuery(query)
	return h.usecase.Submit(ctx)
}

func (h CLIHandler) Recover(ctx context.Context) (dto.CheckpointOutput, bool, error) {
	return h.usecase.Recover(ctx)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

func (h CLIHandler) Play(ctx context.Context, video, rank int) (dto.PlayOutput, error) {
	return h.usecase.Play(ctx, dto.PlayInput{Video: video, Rank: rank})
}

// CollectFiles expands paths into file inputs. Explicit files are kept
// regardless of extension.
func CollectFiles(paths []string, exts []string) ([]dto.FileInput, error) {
	allowed := map[string]bool{}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	files := []dto.FileInput{}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, toInput(path, info))
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", path, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, entry := range entries {
			if entry.IsDir() || (len(allowed) > 0 && !allowed[strings.ToLower(filepath.Ext(entry.Name()))]) {
				continue
			}
			entryInfo, err := entry.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
			}
			files = append(files, toInput(filepath.Join(path, entry.Name()), entryInfo))
		}
	}
	return files, nil
}

func toInput(path string, info os.FileInfo) dto.FileInput {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return dto.FileInput{Name: info.Name(), Path: path, Size: info.Size()}
}
