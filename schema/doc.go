// Package schema reads the instance document that lists the Radarr and Sonarr
// instances to sync, in either of its two historical shapes.
//
// # Versions
//
// The legacy shape (package v1) lists instances without names:
//
//	radarr:
//	  - base_url: http://localhost:7878
//	    api_key: key
//
// The current shape (package v2) keys instances by name:
//
//	radarr:
//	  movies:
//	    base_url: http://localhost:7878
//	    api_key: key
//
// # Parsing
//
// Parse tries the current shape first. When that fails it tries the legacy
// shape and upgrades the result, naming instances instance1, instance2, ...
// in document order (Radarr first, then Sonarr). Numbering starts over for
// every call. When neither shape matches, the error describes why the
// document is not a valid current-shape document:
//
//	cfg, err := schema.Parse(raw)
//	if err != nil {
//		var mismatch *schema.MismatchError
//		if errors.As(err, &mismatch) {
//			fmt.Println(mismatch.Line, mismatch.Field)
//		}
//	}
//
// Load additionally converts the result into the canonical Config used by the
// rest of arrconf.
package schema
