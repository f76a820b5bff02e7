package a2a

import "slices"

// DefaultAcceptedOutputModes is used when a configuration omits acceptedOutputModes.
var DefaultAcceptedOutputModes = []string{"text/plain", "image/png", "image/svg+xml"}

// PushNotificationConfig is a callback target for task updates.
type PushNotificationConfig struct {
	URL            string
	Token          *string
	Authentication Object
	Extra          Extensions
}

// MarshalJSON implements [json.Marshaler].
func (c PushNotificationConfig) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("url", c.URL)
	if c.Token != nil {
		w.field("token", *c.Token)
	}
	if c.Authentication != nil {
		w.field("authentication", c.Authentication)
	}
	w.extensions(c.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (c *PushNotificationConfig) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodePushNotificationConfig(data)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (d *Decoder) pushNotificationConfig(o *object) (PushNotificationConfig, error) {
	var (
		c   PushNotificationConfig
		err error
	)
	if c.URL, err = o.requiredString("url"); err != nil {
		return PushNotificationConfig{}, err
	}
	if c.Token, err = o.optionalString("token"); err != nil {
		return PushNotificationConfig{}, err
	}
	if c.Authentication, err = o.optionalObject("authentication"); err != nil {
		return PushNotificationConfig{}, err
	}
	c.Extra = o.extensions()
	return c, nil
}

// MessageConfiguration holds per-call execution options.
//
// A nil AcceptedOutputModes means the caller sent an explicit null; the
// default list is only applied when the member is absent.
type MessageConfiguration struct {
	Blocking               bool
	AcceptedOutputModes    []string
	PushNotificationConfig *PushNotificationConfig
	Extra                  Extensions
}

// NewMessageConfiguration returns a configuration with every default applied.
func NewMessageConfiguration() MessageConfiguration {
	return MessageConfiguration{
		Blocking:            true,
		AcceptedOutputModes: slices.Clone(DefaultAcceptedOutputModes),
	}
}

// Accepts reports whether mode is among the accepted output modes. A nil list
// accepts everything.
func (c MessageConfiguration) Accepts(mode string) bool {
	if c.AcceptedOutputModes == nil {
		return true
	}
	return slices.Contains(c.AcceptedOutputModes, mode)
}

// MarshalJSON implements [json.Marshaler].
func (c MessageConfiguration) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("blocking", c.Blocking)
	if c.AcceptedOutputModes == nil {
		w.raw("acceptedOutputModes", nullValue)
	} else {
		w.field("acceptedOutputModes", c.AcceptedOutputModes)
	}
	if c.PushNotificationConfig != nil {
		w.field("pushNotificationConfig", *c.PushNotificationConfig)
	}
	w.extensions(c.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (c *MessageConfiguration) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeMessageConfiguration(data)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (d *Decoder) messageConfiguration(o *object) (MessageConfiguration, error) {
	var (
		c   MessageConfiguration
		err error
	)
	if c.Blocking, err = o.defaultBool("blocking", true); err != nil {
		return MessageConfiguration{}, err
	}

	raw, ok := o.lookup("acceptedOutputModes")
	switch {
	case !ok:
		c.AcceptedOutputModes = slices.Clone(DefaultAcceptedOutputModes)
	case isNull(raw):
		c.AcceptedOutputModes = nil
	default:
		elems, _, err := o.array("acceptedOutputModes")
		if err != nil {
			return MessageConfiguration{}, err
		}
		if c.AcceptedOutputModes, err = o.stringList("acceptedOutputModes", elems); err != nil {
			return MessageConfiguration{}, err
		}
	}

	if raw, ok := o.optional("pushNotificationConfig"); ok {
		po, err := nestedObject(o.fieldPath("pushNotificationConfig"), raw)
		if err != nil {
			return MessageConfiguration{}, err
		}
		pc, err := d.pushNotificationConfig(po)
		if err != nil {
			return MessageConfiguration{}, err
		}
		c.PushNotificationConfig = &pc
	}

	c.Extra = o.extensions()
	return c, nil
}
