package transcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEncoders = `Encoders:
 V..... = Video
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D h264_amf             AMD AMF H.264 Encoder (codec h264)
 V....D h264_qsv             H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (Intel Quick Sync Video acceleration) (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		encoders string
		want     Encoder
	}{
		{"nvenc preferred", sampleEncoders + " V....D h264_nvenc  NVIDIA NVENC H.264 encoder\n", EncoderNVENC},
		{"qsv before amf", sampleEncoders, EncoderQSV},
		{"amf only", " V....D h264_amf  AMD AMF\n V....D libx264 x264\n", EncoderAMF},
		{"software only", " V....D libx264 x264\n", EncoderX264},
		{"empty output", "", EncoderX264},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.encoders))
		})
	}
}

func TestEncoder_QualityArgs(t *testing.T) {
	assert.Equal(t, map[string]string{"crf": "21"}, EncoderX264.QualityArgs(21))
	assert.Equal(t, map[string]string{"rc": "vbr", "cq": "21"}, EncoderNVENC.QualityArgs(21))
	assert.Equal(t, map[string]string{"global_quality": "23"}, EncoderQSV.QualityArgs(23))
	assert.Equal(t, map[string]string{"quality": "quality", "rc": "cqp", "qp_i": "21", "qp_p": "21"}, EncoderAMF.QualityArgs(21))
}

func TestParseEncoder(t *testing.T) {
	e, err := ParseEncoder(" h264_qsv ")
	require.NoError(t, err)
	assert.Equal(t, EncoderQSV, e)

	_, err = ParseEncoder("hevc_vaapi")
	assert.ErrorIs(t, err, ErrUnknownEncoder)
}

func TestEncoder_Hardware(t *testing.T) {
	assert.False(t, EncoderX264.Hardware())
	assert.True(t, EncoderAMF.Hardware())
	assert.Equal(t, "CPU", EncoderX264.Vendor())
	assert.Equal(t, "NVIDIA GPU", EncoderNVENC.Vendor())
}
