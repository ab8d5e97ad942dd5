package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wearvirtually",
		Subsystem: "imagegen",
		Name:      "render_duration_seconds",
		Help:      "Duration of try-on render requests",
	}, []string{"model"})

	renderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wearvirtually",
		Subsystem: "imagegen",
		Name:      "render_failures_total",
		Help:      "Number of try-on render failures",
	}, []string{"model"})
)

// Config defines configuration options for the OpenAI-backed renderer.
type Config struct {
	APIKey string
	Model  string
	Size   string
	Logger zerolog.Logger
}

// RenderInput describes a single try-on render request.
type RenderInput struct {
	PersonPhotoURL string
	GarmentName    string
	GarmentDesc    string
	GarmentImage   string
}

// Renderer produces a composite try-on image via the OpenAI images API.
type Renderer struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// New builds a renderer using the provided configuration.
func New(cfg Config) (*Renderer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.CreateImageModelDallE3
	}
	if cfg.Size == "" {
		cfg.Size = openai.CreateImageSize1024x1024
	}

	tracer := otel.Tracer("github.com/wearvirtually/wearvirtually-api/pkg/imagegen")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	client := openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey))

	return &Renderer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "imagegen").Logger(),
	}, nil
}

// Render asks the image API for a try-on composite and returns the decoded PNG bytes.
func (r *Renderer) Render(parent context.Context, input RenderInput) ([]byte, error) {
	ctx, span := r.tracer.Start(parent, "imagegen.render", trace.WithAttributes(
		attribute.String("model", r.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ImageRequest{
		Model:          r.cfg.Model,
		Prompt:         buildPrompt(input),
		Size:           r.cfg.Size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	}

	resp, err := r.client.CreateImage(ctx, request)
	renderDuration.WithLabelValues(r.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		renderFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai render: %w", err)
	}

	if len(resp.Data) == 0 {
		err := fmt.Errorf("no images returned from openai")
		renderFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	decoded, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		renderFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("decode render payload: %w", err)
	}

	return decoded, nil
}

func buildPrompt(input RenderInput) string {
	builder := strings.Builder{}
	builder.WriteString("Photorealistic virtual try-on composite. ")
	builder.WriteString("Render the person from the reference photo wearing the garment described below, keeping pose, lighting and background intact.\n\n")
	builder.WriteString("Person photo: ")
	builder.WriteString(input.PersonPhotoURL)
	builder.WriteString("\nGarment: ")
	builder.WriteString(input.GarmentName)
	if input.GarmentDesc != "" {
		builder.WriteString("\nDetails: ")
		builder.WriteString(input.GarmentDesc)
	}
	if input.GarmentImage != "" {
		builder.WriteString("\nGarment reference image: ")
		builder.WriteString(input.GarmentImage)
	}
	return builder.String()
}
