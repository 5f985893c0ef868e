package gemini

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

// デフォルトのTTS音声フォーマット(24kHz 16bitモノラルのリニアPCM)
const (
	DefaultSampleRate = 24000
	defaultChannels   = 1
	defaultBitDepth   = 16
)

// PCMToWAV は生のPCMデータにWAVヘッダを付与します。
// TTS APIは生のPCMを返すため、ブラウザで再生するにはWAV形式への変換が必要です。
func PCMToWAV(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = defaultChannels
	}
	if bitsPerSample <= 0 {
		bitsPerSample = defaultBitDepth
	}

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign
	dataLen := len(pcm)

	buf := new(bytes.Buffer)

	// RIFFチャンク
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	// fmtチャンク(リニアPCM)
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	// dataチャンク
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}

// ParseSampleRate はMIMEタイプからサンプルレートを取り出します。
// 例: "audio/L16;codec=pcm;rate=24000" → 24000
func ParseSampleRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		if value, ok := strings.CutPrefix(param, "rate="); ok {
			if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return DefaultSampleRate
}
