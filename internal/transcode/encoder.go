package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Encoder is an H.264 video encoder known to the transcoder.
type Encoder string

const (
	EncoderNVENC Encoder = "h264_nvenc" // NVIDIA GPU
	EncoderQSV   Encoder = "h264_qsv"   // Intel QuickSync
	EncoderAMF   Encoder = "h264_amf"   // AMD AMF
	EncoderX264  Encoder = "libx264"    // CPU fallback
)

// probeOrder is the hardware preference order; EncoderX264 is used when none match.
var probeOrder = []Encoder{EncoderNVENC, EncoderQSV, EncoderAMF}

// ParseEncoder validates an encoder name.
func ParseEncoder(s string) (Encoder, error) {
	switch e := Encoder(strings.TrimSpace(s)); e {
	case EncoderNVENC, EncoderQSV, EncoderAMF, EncoderX264:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoder, s)
	}
}

// Hardware reports whether e runs on a GPU or fixed-function block.
func (e Encoder) Hardware() bool {
	return e != EncoderX264
}

// Vendor returns a human readable label for log output.
func (e Encoder) Vendor() string {
	switch e {
	case EncoderNVENC:
		return "NVIDIA GPU"
	case EncoderQSV:
		return "Intel QuickSync"
	case EncoderAMF:
		return "AMD AMF"
	default:
		return "CPU"
	}
}

// QualityArgs returns the encoder-specific rate control options for quality q.
// Software uses constant rate factor; hardware paths use constrained or global quality.
func (e Encoder) QualityArgs(q int) map[string]string {
	v := strconv.Itoa(q)
	switch e {
	case EncoderNVENC:
		return map[string]string{"rc": "vbr", "cq": v}
	case EncoderQSV:
		return map[string]string{"global_quality": v}
	case EncoderAMF:
		return map[string]string{"quality": "quality", "rc": "cqp", "qp_i": v, "qp_p": v}
	default:
		return map[string]string{"crf": v}
	}
}

// Select picks the preferred encoder listed in the transcoder's encoder text.
func Select(encoders string) Encoder {
	for _, e := range probeOrder {
		if strings.Contains(encoders, string(e)) {
			return e
		}
	}
	return EncoderX264
}

// Probe queries t once for its encoders and selects one. Probe failures are logged and
// fall back to EncoderX264.
func Probe(ctx context.Context, t Transcoder, logger *slog.Logger) Encoder {
	if logger == nil {
		logger = slog.Default()
	}

	list, err := t.Encoders(ctx)
	if err != nil {
		logger.Warn("encoder probe failed, using CPU encoder", "error", err, "encoder", EncoderX264)
		return EncoderX264
	}

	e := Select(list)
	if e.Hardware() {
		logger.Info("hardware encoder found", "encoder", e, "vendor", e.Vendor())
	} else {
		logger.Info("no hardware encoder found, using CPU encoder", "encoder", e)
	}
	return e
}
