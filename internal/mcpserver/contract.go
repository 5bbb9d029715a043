package mcpserver

// DisplayConventions describes how the toolkit renders archival description
// fields, for LLM consumers composing or interpreting display strings.
const DisplayConventions = `# Fonds Display Conventions

How archival description records are rendered for display.

## Titles

- Embedded markup tags are stripped and surrounding whitespace trimmed.
- A record with no title falls back to its formatted dates, then to its
  stored display string with any parenthetical suffix removed.

## Dates

- Inclusive date entries render as their expression verbatim; entries
  without an expression render as "begin-end", or just "begin".
- Multiple inclusive entries are comma-joined: "1900-1950, 1960".
- When bulk-typed entries exist, the first is appended in parentheses:
  "1900-1950 (bulk 1920-1930)".

## Extents

- Each extent renders as "<number> <type>", with container summary,
  physical details, and dimensions joined by "; " in parentheses when
  present: "10 linear feet (8 boxes; photographs; 30 cm)".
- Multiple extents are joined by "; ".

## Hierarchy paths

- A record's ancestor chain renders oldest-first, joined by " > " by
  default: "Collection > Series I > Subseries A".
- The chain walks parent references upward to the resource root; cyclic
  parent references are reported as errors, never looped.

## Agents

- Agent display names strip a trailing period, join subdivision terms
  with " -- ", and end with terminal punctuation unless the name already
  ends with ".", ")" or "-".

## Restrictions

- Access restriction notes may embed a normalized expiry date as a
  <date normal="YYYY-MM-DD"> element inside the note text. The normal
  attribute is the machine-readable form; the element body is display
  text only.
`
