package main

import (
	"github.com/urfave/cli/v3"
)

func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songalchemy",
		Usage: "AI playlist generation for Spotify",
		Commands: []*cli.Command{
			authCommand(r),
			generateCommand(r),
			podcastCommand(r),
			spotifyCommand(r),
			historyCommand(r),
			setupCommand(r),
			tuiCommand(r),
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "log in via the browser (PKCE)",
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "clear stored tokens",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "show authentication status",
				Action: r.AuthStatus,
			},
		},
	}
}

func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "generate a playlist from a prompt",
		ArgsUsage: "[prompt]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Aliases: []string{"n"}, Usage: "playlist size"},
			&cli.StringFlag{Name: "vibe", Usage: "song or artist to match the vibe of"},
			&cli.BoolFlag{Name: "surprise", Usage: "generate from a random prompt"},
			&cli.BoolFlag{Name: "save", Usage: "save the playlist to Spotify"},
			&cli.BoolFlag{Name: "share", Usage: "save and print a share link"},
			&cli.BoolFlag{Name: "json", Usage: "print the playlist as JSON"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the playlist to a file (.json or .txt)"},
			&cli.FloatFlag{Name: "acoustic", Value: -1, Usage: "sound tuning, 0 acoustic to 1 electronic"},
			&cli.FloatFlag{Name: "energetic", Value: -1, Usage: "energy tuning 0-1"},
			&cli.FloatFlag{Name: "happy", Value: -1, Usage: "mood tuning 0-1"},
			&cli.FloatFlag{Name: "danceable", Value: -1, Usage: "danceability tuning 0-1"},
			&cli.FloatFlag{Name: "popular", Value: -1, Usage: "popularity tuning 0-1"},
		},
		Action: r.Generate,
	}
}

func podcastCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "podcast",
		Usage: "podcast recommendations",
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "recommend podcasts for a prompt",
				ArgsUsage: "[prompt]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 5, Usage: "number of podcasts"},
					&cli.BoolFlag{Name: "follow", Usage: "follow the recommended shows"},
				},
				Action: r.PodcastGenerate,
			},
			{
				Name:      "episodes",
				Usage:     "list a show's recent episodes",
				ArgsUsage: "<show-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10},
				},
				Action: r.PodcastEpisodes,
			},
		},
	}
}

func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "spotify",
		Usage: "inspect your Spotify library",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print results as JSON"},
		},
		Commands: []*cli.Command{
			{
				Name:   "profile",
				Usage:  "show the authenticated user",
				Action: r.SpotifyProfile,
			},
			{
				Name:  "top-tracks",
				Usage: "list your most played tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.StringFlag{Name: "range", Value: "medium_term", Usage: "short_term | medium_term | long_term"},
				},
				Action: r.SpotifyTopTracks,
			},
			{
				Name:  "top-artists",
				Usage: "list your most played artists",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.StringFlag{Name: "range", Value: "medium_term"},
				},
				Action: r.SpotifyTopArtists,
			},
			{
				Name:  "playlists",
				Usage: "list your playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: r.SpotifyPlaylists,
			},
			{
				Name:      "tracks",
				Usage:     "list a playlist's tracks",
				ArgsUsage: "<playlist-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 50},
				},
				Action: r.SpotifyPlaylistTracks,
			},
			{
				Name:      "delete",
				Usage:     "remove a playlist from your library",
				ArgsUsage: "<playlist-id>",
				Action:    r.SpotifyDeletePlaylist,
			},
		},
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "locally recorded saved playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list saved playlists, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.BoolFlag{Name: "json"},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "rm",
				Usage:     "remove a history entry",
				ArgsUsage: "<id>",
				Action:    r.HistoryRemove,
			},
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "configuration and credentials",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write a starter config file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Value: defaultConfigPath},
				},
				Action: r.SetupInit,
			},
			{
				Name:  "keys",
				Usage: "store API keys and pick a backend",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "openai", Usage: "OpenAI API key"},
					&cli.StringFlag{Name: "gemini", Usage: "Gemini API key"},
					&cli.StringFlag{Name: "backend", Usage: "openai | gemini"},
				},
				Action: r.SetupKeys,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "interactive playlist generator",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Aliases: []string{"n"}, Usage: "playlist size"},
		},
		Action: r.TUI,
	}
}
