// Package whatsapp is the Twilio-facing edge: the inbound webhook and
// the outbound REST sender.
package whatsapp

import (
	"encoding/xml"
	"fmt"
	"net/http"
)

// messagingResponse is the TwiML document Twilio expects back from a
// messaging webhook.
type messagingResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// WriteTwiML answers the webhook with the reply wrapped in TwiML. An
// empty reply produces an empty <Response/>, which tells Twilio to send
// nothing.
func WriteTwiML(w http.ResponseWriter, reply string) error {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")

	body, err := xml.Marshal(messagingResponse{Message: reply})
	if err != nil {
		return fmt.Errorf("marshal twiml: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s%s", xml.Header, body); err != nil {
		return fmt.Errorf("write twiml: %w", err)
	}

	return nil
}
