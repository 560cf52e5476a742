package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/notify"
)

func newVideoDownloadCmd() *cobra.Command {
	var (
		f      videoFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "download <file>",
		Short: "Convert a recording to MP4 and download it",
		Long: "Converts the recording on the server, then saves the MP4 as " +
			"<title>.mp4 in the current directory (or --output). The title is " +
			"looked up on the listed page; filters help find older recordings.",
		Example: `  capctl video download 1_1_1_1.m3u8
  capctl video download 1_1_1_1.m3u8 -o final.mp4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			videos, err := resolveSelection(cmd, client, f, args)
			if err != nil {
				return err
			}
			video := videos[0]
			if output == "" {
				output = downloadName(video)
			}

			written, err := downloadVideo(cmd.Context(), client, video, output, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			notify.Default().Success(fmt.Sprintf("Saved %s (%d bytes)", output, written))
			return nil
		},
	}
	addVideoFlags(cmd, &f, "title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default <title>.mp4)")
	return cmd
}

// downloader is the part of the client a download needs.
type downloader interface {
	ConvertVideo(ctx context.Context, fileName string) (api.Result, error)
	Download(ctx context.Context, fileName string) (io.ReadCloser, int64, error)
}

// downloadVideo converts v, then streams the MP4 to path through a byte
// progress bar drawn on progressOut. A partial file is removed on error.
func downloadVideo(ctx context.Context, svc downloader, v api.Video, path string, progressOut io.Writer) (int64, error) {
	res, err := svc.ConvertVideo(ctx, v.FileName)
	if err != nil {
		return 0, err
	}
	if err = res.Err(); err != nil {
		notify.Default().Error(err.Error())
		return 0, fmt.Errorf("converting %s: %w", v.FileName, notify.MarkReported(err))
	}

	body, size, err := svc.Download(ctx, v.FileName)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	out, err := os.Create(path) //nolint:gosec // Destination chosen by the operator.
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}

	bar := newByteBar(progressOut, "Downloading", size)
	written, copyErr := io.Copy(io.MultiWriter(out, bar), body)
	_ = bar.Finish()
	closeErr := out.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return written, fmt.Errorf("downloading %s: %w", v.FileName, copyErr)
		}
		return written, fmt.Errorf("writing %s: %w", path, closeErr)
	}
	return written, nil
}

// downloadName is "<title>.mp4", falling back to the file name stem.
func downloadName(v api.Video) string {
	name := strings.TrimSpace(v.Title)
	if name == "" {
		name = strings.TrimSuffix(v.FileName, filepath.Ext(v.FileName))
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, name)
	return name + ".mp4"
}
