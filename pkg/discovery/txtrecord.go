package discovery

import (
	"fmt"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeGatewayTXT creates TXT records for gateway discovery.
func EncodeGatewayTXT(info *GatewayInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyDomain] = info.Domain
	txt[TXTKeyRole] = RoleGateway

	if info.Version != "" {
		txt[TXTKeyVersion] = info.Version
	}

	return txt
}

// DecodeGatewayTXT parses TXT records from gateway discovery. Records whose
// role is not "gateway" are rejected; the service type is shared namespace.
func DecodeGatewayTXT(txt TXTRecordMap) (*GatewayInfo, error) {
	role, ok := txt[TXTKeyRole]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyRole)
	}
	if role != RoleGateway {
		return nil, fmt.Errorf("%w: unexpected role %q", ErrInvalidTXTRecord, role)
	}

	info := &GatewayInfo{}
	info.Domain, ok = txt[TXTKeyDomain]
	if !ok || info.Domain == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyDomain)
	}

	info.Version = txt[TXTKeyVersion]
	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, the format mDNS libraries expect.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a
// TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// InstanceName derives the mDNS instance name for a serving domain. Dots are
// kept; names longer than a DNS label are truncated.
func InstanceName(domain string) string {
	name := "browse-" + domain
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}

// ValidateInstanceName checks that an instance name fits in a DNS label.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTXTRecord)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
