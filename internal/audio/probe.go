package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/keithce/notion-voice-notes/internal/apperror"
)

// ffprobeOutput is the subset of `ffprobe -print_format json` we consume.
type ffprobeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Channels   int    `json:"channels"`
		SampleRate string `json:"sample_rate"`
	} `json:"streams"`
}

// Probe extracts duration, container format, bitrate, channel count,
// sample rate and file size for the given audio file.
func (a *implAnalyzer) Probe(ctx context.Context, path string) (Metadata, error) {
	if err := a.executor.LookPath("ffprobe"); err != nil {
		return Metadata{}, apperror.ErrToolNotInstalled("ffprobe")
	}

	stat, err := os.Stat(path)
	if err != nil {
		return Metadata{}, apperror.ErrFileNotFound(path)
	}

	a.logger.Debug(ctx, "Probing audio file: %s", path)

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	out, err := a.executor.Execute(ctx, "ffprobe", args...)
	if err != nil {
		return Metadata{}, apperror.ErrToolFailed("ffprobe", err)
	}

	var probed ffprobeOutput
	if err := json.Unmarshal([]byte(out), &probed); err != nil {
		return Metadata{}, apperror.ErrToolFailed("ffprobe", fmt.Errorf("parse output: %w", err))
	}

	md := Metadata{
		Format:    probed.Format.FormatName,
		SizeBytes: stat.Size(),
	}
	md.DurationSeconds, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	md.BitRate, _ = strconv.ParseInt(probed.Format.BitRate, 10, 64)

	found := false
	for _, stream := range probed.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		md.Channels = stream.Channels
		md.SampleRate, _ = strconv.Atoi(stream.SampleRate)
		found = true
		break
	}
	if !found {
		return Metadata{}, apperror.ErrToolFailed("ffprobe", fmt.Errorf("no audio stream in %s", path))
	}

	a.logger.Info(ctx, "Probed %s: %.1fs, %s, %d ch, %d Hz, %d bytes",
		path, md.DurationSeconds, md.Format, md.Channels, md.SampleRate, md.SizeBytes)

	return md, nil
}
