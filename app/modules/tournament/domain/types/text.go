package tournamenttypes

import "fmt"

// The enums encode as their persistence tokens in JSON.

func (m MatchType) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid match type %d", int(m))
	}
	return []byte(m.WireToken()), nil
}

func (m *MatchType) UnmarshalText(text []byte) error {
	v, ok := MatchTypeFromWireToken(string(text))
	if !ok {
		return fmt.Errorf("unknown match type %q", text)
	}
	*m = v
	return nil
}

func (s LifeStatus) MarshalText() ([]byte, error) {
	if s.WireToken() == "" {
		return nil, fmt.Errorf("invalid life status %d", int(s))
	}
	return []byte(s.WireToken()), nil
}

func (s *LifeStatus) UnmarshalText(text []byte) error {
	v, ok := LifeStatusFromWireToken(string(text))
	if !ok {
		return fmt.Errorf("unknown life status %q", text)
	}
	*s = v
	return nil
}

func (s ImmuneStatus) MarshalText() ([]byte, error) {
	if s.WireToken() == "" {
		return nil, fmt.Errorf("invalid immune status %d", int(s))
	}
	return []byte(s.WireToken()), nil
}

func (s *ImmuneStatus) UnmarshalText(text []byte) error {
	v, ok := ImmuneStatusFromWireToken(string(text))
	if !ok {
		return fmt.Errorf("unknown immune status %q", text)
	}
	*s = v
	return nil
}
