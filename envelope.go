package fronius

import (
	"fmt"
)

// validateEnvelope checks the header of a raw reply and returns a sensor map holding its
// timestamp and status.
func validateEnvelope(endpoint string, raw any) (SensorMap, error) {
	res, ok := asPayload(raw)
	if !ok {
		return nil, &Error{Kind: KindInvalidReply, Endpoint: endpoint, Err: fmt.Errorf("reply is not an object")}
	}
	head, ok := res.object("Head")
	if !ok {
		return nil, &Error{Kind: KindInvalidReply, Endpoint: endpoint, Err: fmt.Errorf("no header data returned")}
	}
	timestamp, ok := head.str("Timestamp")
	if !ok {
		return nil, &Error{Kind: KindInvalidReply, Endpoint: endpoint, Err: fmt.Errorf("no timestamp in header")}
	}
	rawStatus, ok := head.object("Status")
	if !ok {
		return nil, &Error{Kind: KindInvalidReply, Endpoint: endpoint, Err: fmt.Errorf("no status in header")}
	}
	code, ok := rawStatus.number("Code")
	if !ok {
		return nil, &Error{Kind: KindInvalidReply, Endpoint: endpoint, Err: fmt.Errorf("no status code in header")}
	}
	status := Status{Code: int(code)}
	status.Reason, _ = rawStatus.str("Reason")
	status.UserMessage, _ = rawStatus.str("UserMessage")

	sensor := SensorMap{
		"timestamp": Value{Value: timestamp},
		"status":    status,
	}
	if status.Code != 0 {
		return nil, &Error{
			Kind:     KindBadStatus,
			Endpoint: endpoint,
			Code:     status.Code,
			Reason:   status.Reason,
			Response: sensor,
		}
	}
	return sensor, nil
}

// bodyData returns the body of a reply. GetLoggerInfo puts it under LoggerInfo instead of
// Data.
func bodyData(endpoint string, raw any) (payload, error) {
	res, _ := asPayload(raw)
	body, ok := res.object("Body")
	if ok {
		if data, ok := body.object("Data"); ok {
			return data, nil
		}
		if data, ok := body.object("LoggerInfo"); ok {
			return data, nil
		}
	}
	return nil, &Error{Kind: KindInvalidReply, Endpoint: endpoint, Err: fmt.Errorf("no body data returned")}
}
