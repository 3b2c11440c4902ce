package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hazelvane/melodex/internal/shared"
)

// ExportOpts contains configuration for playlist snapshot exports.
type ExportOpts struct {
	OutputDir string // Base output directory (default: catalog_export_{epoch})
	Pretty    bool   // Indent the JSON output
}

// PlaylistExportResult is the outcome of exporting a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string `json:"playlistId"`
	PlaylistName string `json:"playlistName"`
	File         string `json:"file,omitempty"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// ExportResult summarizes a completed export run.
type ExportResult struct {
	Total           int                    `json:"total"`
	Succeeded       int                    `json:"succeeded"`
	Failed          int                    `json:"failed"`
	OutputDirectory string                 `json:"outputDirectory"`
	ManifestPath    string                 `json:"manifestPath,omitempty"`
	Results         []PlaylistExportResult `json:"results"`
}

// ExportPlaylists resolves each playlist through the pipeline and writes one
// JSON snapshot per playlist plus a manifest summarizing the run.
//
// Individual playlist failures are recorded in the manifest, not fatal.
func (e *WarmEngine) ExportPlaylists(ctx context.Context, ids []string, opts ExportOpts) (*ExportResult, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrInvalidArgument)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("catalog_export_%d", time.Now().Unix())
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Total:           len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	for _, id := range ids {
		res := e.exportSinglePlaylist(ctx, id, opts)
		result.Results = append(result.Results, res)
		if res.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}

// exportSinglePlaylist resolves one playlist and writes its snapshot.
func (e *WarmEngine) exportSinglePlaylist(ctx context.Context, id string, opts ExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{PlaylistID: id}

	playlist, err := e.resolver.ResolvePlaylist(ctx, id)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.PlaylistName = playlist.Name

	data, err := shared.MarshalJSON(playlist, opts.Pretty)
	if err != nil {
		result.Error = fmt.Sprintf("JSON marshal failed: %v", err)
		return result
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", id))
	if err := os.WriteFile(path, data, 0644); err != nil {
		result.Error = fmt.Sprintf("JSON write failed: %v", err)
		return result
	}

	result.File = path
	result.Success = true
	return result
}
