package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"raw-loader/internal/decoder"
	"raw-loader/internal/exiftool"
	"raw-loader/internal/logging"
	"raw-loader/internal/media"
	"raw-loader/internal/rawconfig"
	"raw-loader/internal/rawerr"
)

// Tier names, used in reports, logs and metric labels.
const (
	TierFullDevelopment   = "full_development"
	TierMetadataPreview   = "metadata_preview"
	TierMetadataThumbnail = "metadata_thumbnail"
	TierDecoderEmbedded   = "decoder_embedded"
)

// Tiers lists every tier name.
var Tiers = []string{TierFullDevelopment, TierMetadataPreview, TierMetadataThumbnail, TierDecoderEmbedded}

// Strategy is one way of producing an image from a RAW file.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, path string) Result
}

// MetadataSource reads embedded images by tag. *exiftool.Tool implements it.
type MetadataSource interface {
	Available() bool
	Extract(ctx context.Context, path string, tag exiftool.Tag) ([]byte, error)
}

// FullDevelopment develops the file with a fixed DecoderConfig.
type FullDevelopment struct {
	Decoder decoder.Decoder
	Config  rawconfig.DecoderConfig
}

// Name implements Strategy.
func (s *FullDevelopment) Name() string { return TierFullDevelopment }

// Attempt implements Strategy. Errors without a kind are reported as
// rawerr.DecodeFailure.
func (s *FullDevelopment) Attempt(ctx context.Context, path string) Result {
	const op = "extract.full_development"

	if err := s.Config.Validate(); err != nil {
		return Failed(err)
	}

	buf, err := s.Decoder.Develop(ctx, path, s.Config)
	if err != nil {
		if rawerr.KindOf(err) == "" {
			err = rawerr.New(rawerr.DecodeFailure, op, path, err)
		}
		return Failed(err)
	}
	if buf == nil {
		return Failed(rawerr.Errorf(rawerr.DecodeFailure, op, path, "decoder returned no image"))
	}
	return Success(buf)
}

// Metadata extracts an embedded image through the metadata utility, trying
// Tags in order. When the utility is not available it asks Fallback for its
// embedded thumbnail instead.
type Metadata struct {
	name     string
	Tags     []exiftool.Tag
	Source   MetadataSource
	Fallback decoder.Decoder
	// MaxDimension shrinks decoded images to fit, 0 keeps them as stored.
	MaxDimension int

	// fellBackFor is the last path handed to Fallback.
	fellBackFor string
}

// NewMetadataPreview reads PreviewImage, then JpgFromRaw.
func NewMetadataPreview(src MetadataSource, fallback decoder.Decoder) *Metadata {
	return &Metadata{
		name:     TierMetadataPreview,
		Tags:     []exiftool.Tag{exiftool.PreviewImage, exiftool.JpgFromRaw},
		Source:   src,
		Fallback: fallback,
	}
}

// NewMetadataThumbnail reads ThumbnailImage.
func NewMetadataThumbnail(src MetadataSource, fallback decoder.Decoder) *Metadata {
	return &Metadata{
		name:     TierMetadataThumbnail,
		Tags:     []exiftool.Tag{exiftool.ThumbnailImage},
		Source:   src,
		Fallback: fallback,
	}
}

// Name implements Strategy.
func (s *Metadata) Name() string { return s.name }

// Attempt implements Strategy.
func (s *Metadata) Attempt(ctx context.Context, path string) Result {
	op := "extract." + s.name

	if s.Source == nil || !s.Source.Available() {
		return s.fallback(ctx, path, "metadata utility not available")
	}

	for _, tag := range s.Tags {
		data, err := s.Source.Extract(ctx, path, tag)
		switch {
		case errors.Is(err, exiftool.ErrTagAbsent):
			logging.Debug("%s: %s has no %s", s.name, path, tag)
			continue
		case errors.Is(err, exiftool.ErrUnavailable):
			return s.fallback(ctx, path, err.Error())
		case err != nil:
			return Failed(rawerr.New(rawerr.DecodeFailure, op, path, err))
		}

		buf, err := media.DecodeEmbedded(data, decoder.SniffFormat(data), s.MaxDimension)
		if err != nil {
			return Failed(rawerr.New(rawerr.DecodeFailure, op, path, fmt.Errorf("%s: %w", tag, err)))
		}
		logging.Debug("%s: decoded %s from %s: %s", s.name, tag, path, buf)
		return Success(buf)
	}

	return Unavailable("no " + joinTags(s.Tags) + " in file")
}

func (s *Metadata) fallback(ctx context.Context, path, reason string) Result {
	if s.Fallback == nil {
		return Unavailable(reason)
	}
	logging.Debug("%s: %s, asking decoder for embedded thumbnail", s.name, reason)
	s.fellBackFor = path
	return fromDecoder(ctx, s.Fallback, path, s.MaxDimension, "extract."+s.name)
}

// DecoderEmbedded asks the native decoder for its embedded thumbnail.
type DecoderEmbedded struct {
	Decoder      decoder.Decoder
	MaxDimension int
	// After is an earlier tier in the same chain whose Fallback is Decoder.
	// If it already asked the decoder for this path, the tier is skipped.
	After *Metadata
}

// Name implements Strategy.
func (s *DecoderEmbedded) Name() string { return TierDecoderEmbedded }

// Attempt implements Strategy.
func (s *DecoderEmbedded) Attempt(ctx context.Context, path string) Result {
	if s.Decoder == nil {
		return Unavailable("no decoder configured")
	}
	if s.After != nil && s.After.fellBackFor == path {
		return Unavailable("embedded thumbnail already tried by " + s.After.Name())
	}
	return fromDecoder(ctx, s.Decoder, path, s.MaxDimension, "extract."+TierDecoderEmbedded)
}

func fromDecoder(ctx context.Context, dec decoder.Decoder, path string, maxDimension int, op string) Result {
	emb, err := dec.EmbeddedThumbnail(ctx, path)
	switch {
	case errors.Is(err, decoder.ErrNoEmbedded), errors.Is(err, decoder.ErrNotInstalled):
		return Unavailable(err.Error())
	case err != nil:
		return Failed(err)
	case emb == nil || len(emb.Data) == 0:
		return Unavailable("decoder returned no embedded image")
	}

	buf, err := media.DecodeEmbedded(emb.Data, emb.Format, maxDimension)
	if err != nil {
		return Failed(rawerr.New(rawerr.DecodeFailure, op, path, err))
	}
	return Success(buf)
}

func joinTags(tags []exiftool.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return strings.Join(names, "/")
}
