// package formatter renders generated playlists for export.
package formatter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
)

// ToJSON renders the playlist as indented JSON.
func ToJSON(p *models.Playlist) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist: %w", err)
	}

	return data, nil
}

// ToText renders the playlist as a numbered track listing.
func ToText(p *models.Playlist) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n", p.Description)
	}
	b.WriteString("\n")

	for i, track := range p.Tracks {
		fmt.Fprintf(&b, "%2d. %s - %s\n", i+1, track.Name, strings.Join(track.Artists, ", "))
	}

	return []byte(b.String())
}

// WriteFile exports the playlist to path, picking the format from the
// extension: .json for JSON, anything else for the text listing.
func WriteFile(p *models.Playlist, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	var (
		data []byte
		err  error
	)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = ToJSON(p)
		if err != nil {
			return err
		}
	} else {
		data = ToText(p)
	}

	return os.WriteFile(path, data, 0o644)
}
