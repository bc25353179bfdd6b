package entities

import (
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	RulesProtocol = "Rules"
	RulesProperty = "rules"
)

// Commands understood by the relay controller firmware.
const (
	CommandSetRule        string = "SetRule"
	CommandDeleteRule     string = "DeleteRule"
	CommandDeleteAllRules string = "DeleteAllRules"
)

// DeleteAllSentinel is the constant value carried by a DeleteAllRules command.
const DeleteAllSentinel = 1

const statusOK = 200

// Protocols mirrors the protocols field of a device in core-metadata.
type Protocols map[string]map[string]interface{}

type DeviceRecord struct {
	Name      string    `json:"name" yaml:"name"`
	Protocols Protocols `json:"protocols,omitempty" yaml:"protocols,omitempty"`
}

type CommandResult struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

func (c CommandResult) Succeeded() bool {
	return c.StatusCode == statusOK
}

// Result is the uniform outcome reported to callers outside the library.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func NewResult(err error) Result {
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true}
}

// RulesFromProtocols extracts protocols.Rules.rules. A missing protocol or
// property yields an empty set.
func RulesFromProtocols(protocols Protocols) (RuleSet, error) {
	properties, ok := protocols[RulesProtocol]
	if !ok {
		return RuleSet{}, nil
	}
	raw, ok := properties[RulesProperty]
	if !ok || raw == nil {
		return RuleSet{}, nil
	}

	// The property arrives as generic JSON or YAML values, round trip it
	// through JSON to get typed rules.
	encoded, err := json.Marshal(normalize(raw))
	if err != nil {
		return RuleSet{}, errors.Wrap(err, "encode rules property")
	}
	rules := RuleSet{}
	if err := json.Unmarshal(encoded, &rules); err != nil {
		return RuleSet{}, errors.Wrap(err, "decode rules property")
	}
	return rules, nil
}

// ProtocolsWithRules returns a copy of protocols where Rules.rules holds rules.
// Other protocols and properties are kept untouched.
func ProtocolsWithRules(protocols Protocols, rules RuleSet) Protocols {
	updated := make(Protocols, len(protocols)+1)
	for name, properties := range protocols {
		copied := make(map[string]interface{}, len(properties))
		for key, value := range properties {
			copied[key] = value
		}
		updated[name] = copied
	}
	if updated[RulesProtocol] == nil {
		updated[RulesProtocol] = map[string]interface{}{}
	}
	updated[RulesProtocol][RulesProperty] = rules.Clone()
	return updated
}

// normalize converts map[interface{}]interface{} produced by yaml.v2 into
// JSON-friendly maps.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		converted := make(map[string]interface{}, len(v))
		for key, item := range v {
			if name, ok := key.(string); ok {
				converted[name] = normalize(item)
			}
		}
		return converted
	case map[string]interface{}:
		converted := make(map[string]interface{}, len(v))
		for key, item := range v {
			converted[key] = normalize(item)
		}
		return converted
	case []interface{}:
		converted := make([]interface{}, len(v))
		for i, item := range v {
			converted[i] = normalize(item)
		}
		return converted
	default:
		return v
	}
}
