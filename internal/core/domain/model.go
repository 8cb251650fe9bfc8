package domain

import (
	"encoding/json"
	"regexp"
)

var modelIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidModelID reports whether id is a safe single path segment.
func ValidModelID(id string) bool {
	return modelIDPattern.MatchString(id) && id != "." && id != ".."
}

// ModelSummary is one entry of the model catalogue.
type ModelSummary struct {
	ID          string `json:"model_id"`
	ManifestURL string `json:"manifest_url"`
}

// OnnxInfo describes the browser-inference ONNX graph of a model.
type OnnxInfo struct {
	Model          string  `json:"model"`
	ExternalData   *string `json:"external_data,omitempty"`
	SHA256         string  `json:"sha256,omitempty"`
	ExternalSHA256 *string `json:"external_sha256,omitempty"`
	Quantization   *string `json:"quantization,omitempty"`
	Size           int64   `json:"size,omitempty"`
}

// ShardInfo is one safetensors shard listed in a manifest.
type ShardInfo struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256,omitempty"`
	Size   int64  `json:"size,omitempty"`
}

// Manifest is the manifest.json published next to every model on the CDN.
type Manifest struct {
	ModelID            string      `json:"model_id"`
	DisplayName        string      `json:"display_name,omitempty"`
	Version            string      `json:"version,omitempty"`
	License            string      `json:"license,omitempty"`
	Format             string      `json:"format,omitempty"`
	MaxSequenceLen     int         `json:"max_sequence_len,omitempty"`
	TokenizerURL       string      `json:"tokenizer_url"`
	TokenizerConfig    *string     `json:"tokenizer_config,omitempty"`
	GenerationConfig   *string     `json:"generation_config,omitempty"`
	SpecialTokensMap   *string     `json:"special_tokens_map,omitempty"`
	TokenizerVocabURL  string      `json:"tokenizer_vocab_url,omitempty"`
	TokenizerMergesURL string      `json:"tokenizer_merges_url,omitempty"`
	Onnx               *OnnxInfo   `json:"onnx,omitempty"`
	Shards             []ShardInfo `json:"shards"`
}

// ManifestDocument is a manifest as served upstream: the raw bytes are
// mirrored to clients untouched, the parsed form is used for checks.
type ManifestDocument struct {
	Raw      json.RawMessage
	Manifest Manifest
}
