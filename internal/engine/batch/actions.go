package batch

import (
	"context"

	"github.com/rmlive/capctl/internal/api"
)

// VideoService is the subset of the API client used by the stock actions.
type VideoService interface {
	ConvertVideo(ctx context.Context, fileName string) (api.Result, error)
	DeleteVideo(ctx context.Context, fileName string) (api.Result, error)
}

// ConvertAction requests a server-side MP4 transcode per video.
func ConvertAction(svc VideoService) Action[api.Video] {
	return func(ctx context.Context, v api.Video) error {
		res, err := svc.ConvertVideo(ctx, v.FileName)
		if err != nil {
			return err
		}
		return res.Err()
	}
}

// DeleteAction requests server-side deletion per video.
func DeleteAction(svc VideoService) Action[api.Video] {
	return func(ctx context.Context, v api.Video) error {
		res, err := svc.DeleteVideo(ctx, v.FileName)
		if err != nil {
			return err
		}
		return res.Err()
	}
}
