package message

import (
	"fmt"

	"github.com/fiddotdev/hub-go/protocol"
)

// MaxFutureSkew is how far (in seconds) a timestamp may run ahead of the
// validator's clock. A timestamp exactly MaxFutureSkew ahead is accepted.
const MaxFutureSkew int64 = 10 * 60

// Rule is a single envelope validation rule. Rules are evaluated in order and
// the first failure is reported.
type Rule struct {
	ID    string
	Apply func(data *protocol.MessageData, now int64) error
}

// Stable Rule IDs.
const (
	RuleTimestampSkew = "HUB-VAL-101"
	RuleNetwork       = "HUB-VAL-201"
	RuleMessageType   = "HUB-VAL-301"
)

var dataRules = []Rule{
	{ID: RuleTimestampSkew, Apply: ruleTimestampSkew},
	{ID: RuleNetwork, Apply: ruleNetwork},
	{ID: RuleMessageType, Apply: ruleMessageType},
}

// ValidateMessageData checks data against the current clock and returns it
// unchanged when every rule passes.
func ValidateMessageData(data *protocol.MessageData) (*protocol.MessageData, error) {
	now, err := Now()
	if err != nil {
		return nil, err
	}
	return ValidateMessageDataAt(data, now)
}

// ValidateMessageDataAt is ValidateMessageData with an explicit protocol time.
func ValidateMessageDataAt(data *protocol.MessageData, now int64) (*protocol.MessageData, error) {
	if data == nil {
		return nil, newError(KindInternal, "HUB-VAL-001", "nil message data")
	}
	for _, r := range dataRules {
		if err := r.Apply(data, now); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// ValidateMessageDataAll evaluates every rule and returns all failures, in
// rule order. It is meant for diagnostics; acceptance decisions should use
// ValidateMessageData.
func ValidateMessageDataAll(data *protocol.MessageData, now int64) []error {
	if data == nil {
		return []error{newError(KindInternal, "HUB-VAL-001", "nil message data")}
	}
	var errs []error
	for _, r := range dataRules {
		if err := r.Apply(data, now); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func ruleTimestampSkew(data *protocol.MessageData, now int64) error {
	if int64(data.Timestamp)-now > MaxFutureSkew {
		return newError(KindTimestampInFuture, RuleTimestampSkew,
			fmt.Sprintf("timestamp %d more than 10 mins in the future (now %d)", data.Timestamp, now))
	}
	return nil
}

func ruleNetwork(data *protocol.MessageData, _ int64) error {
	if !data.Network.IsValid() {
		return newError(KindInvalidNetwork, RuleNetwork, fmt.Sprintf("invalid network %d", int32(data.Network)))
	}
	return nil
}

func ruleMessageType(data *protocol.MessageData, _ int64) error {
	if !data.Type.IsValid() {
		return newError(KindInvalidMessageType, RuleMessageType, fmt.Sprintf("invalid message type %d", int32(data.Type)))
	}
	return nil
}
