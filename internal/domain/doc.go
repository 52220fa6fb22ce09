// Package domain normalizes and merges point-keyed weather data from the
// upstream providers into one consistent response.
//
// # Sources
//
// Four documents feed one merge:
//
//   - The global model provider's "one call" document: current conditions
//     plus minutely, hourly, and daily arrays. Values are already metric
//     (Kelvin, m/s, hPa); timestamps are epoch seconds.
//   - The national service's point document: a location block, the latest
//     observation, and four parallel flat arrays (tempLabel, weather,
//     temperature, pop, text). The flat series is segmented day/night
//     ("High"/"Low" labels), not by calendar day, and its values are
//     string-encoded imperial units: °F, mph, inHg, statute miles.
//   - The hazard-alert feature collection for the point.
//   - The auxiliary geospatial feeds: up to three categorical convective
//     outlook feature collections (one per forecast day, Polygon or
//     MultiPolygon per feature with a DN priority rank and LABEL/LABEL2/
//     fill/stroke properties) and the active mesoscale-discussion
//     collection.
//
// # Conventions
//
// Polygon coordinates are GeoJSON order, longitude then latitude; Point
// matches. Containment uses even-odd ray casting: inside the outer ring and
// outside every hole ring.
//
// The national observation encodes missing readings as "0". After unit
// conversion that surfaces as exactly the 0°F conversion (≈255.372 K) for
// temperatures, or exactly 0 for speeds, visibility, and pressure; both are
// treated as absent and the model value is used instead. See [ValidKelvin]
// and [ValidMeasure].
//
// Mesoscale discussions carry their expiry as a bare "Till HHMM" clock time
// inside the folder-path text; the date comes from the issuance timestamp in
// the same feature. A malformed expiry keeps the discussion (fails open).
//
// # Failure model
//
// Nothing here is fatal. Absent or malformed input degrades to nil at the
// narrowest scope, unclassifiable text yields the explicit Unknown condition
// carrying the raw text, and [Merge] always returns a complete, well-shaped
// response. The engine performs no I/O and keeps no state between calls;
// time is read from an injectable clock so identical inputs produce
// identical output.
package domain
