package voice

import "encoding/xml"

// Call-routing document elements, marshaled into the provider's XML
// dialect (TwiML-shaped).

// Response is the root of a call-routing document.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Say     string   `xml:"Say,omitempty"`
	Dial    *Dial    `xml:"Dial,omitempty"`
}

// Dial instructs the provider to bridge the live call.
type Dial struct {
	CallerID string `xml:"callerId,attr,omitempty"`
	Number   string `xml:"Number,omitempty"`
	Client   string `xml:"Client,omitempty"`
}

const holdMessage = "Thank you for calling! Please wait while we connect you."

// RouteCall builds the routing document for /voice/call. With a
// destination the call is bridged to that number using the service's
// caller ID; without one the provider speaks the hold message.
func RouteCall(destination, callerID string) Response {
	if destination == "" {
		return Response{Say: holdMessage}
	}
	return Response{Dial: &Dial{CallerID: callerID, Number: destination}}
}

// RouteIncoming builds the routing document bridging an incoming call to
// the fixed client identity.
func RouteIncoming(clientIdentity string) Response {
	return Response{Dial: &Dial{Client: clientIdentity}}
}

// Render marshals a routing document with the XML declaration the
// provider expects.
func Render(r Response) (string, error) {
	body, err := xml.Marshal(r)
	if err != nil {
		return "", err
	}
	return xml.Header + string(body), nil
}
