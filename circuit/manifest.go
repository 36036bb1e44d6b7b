package circuit

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes a program image to load into a machine's memory:
// where it lands, its bytes (hex-encoded in the YAML document), and an
// optional explicit reset vector override. This is the in-scope
// counterpart to the out-of-scope "load a program from a file" CLI
// concern (spec §1): Machine only needs bytes and an address, however
// a host chooses to obtain them; this loader is one convenient way.
type Manifest struct {
	Name       string `yaml:"name"`
	LoadAddr   uint16 `yaml:"load_addr"`
	ResetVector *uint16 `yaml:"reset_vector,omitempty"`
	Bytes      []byte  `yaml:"-"`
	HexBytes   string  `yaml:"bytes"`
}

// LoadManifestFile reads and decodes a program manifest from path.
func LoadManifestFile(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ErrLoaderIO{Reason: err.Error()}
	}
	return ParseManifest(raw)
}

// ParseManifest decodes a manifest document already in memory.
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, &ErrLoaderIO{Reason: err.Error()}
	}
	decoded, err := decodeHex(m.HexBytes)
	if err != nil {
		return nil, &ErrLoaderIO{Reason: err.Error()}
	}
	m.Bytes = decoded
	return &m, nil
}

func decodeHex(s string) ([]byte, error) {
	clean := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == ' ' || r == '\n' || r == '\t' || r == '\r':
			continue
		default:
			clean = append(clean, byte(r))
		}
	}
	if len(clean)%2 != 0 {
		return nil, &ErrLoaderIO{Reason: "odd-length hex payload"}
	}
	out := make([]byte, len(clean)/2)
	for i := range out {
		hi, err := hexNibble(clean[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(clean[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, &ErrLoaderIO{Reason: "invalid hex digit"}
}
