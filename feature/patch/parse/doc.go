// Package parse turns raw patch-note markup into entity-scoped change lists.
//
// The source documents share no stable schema: three heading/list layouts
// exist across the game modes, arrow glyphs vary, numeric fields may be
// slash-separated per-rank lists, and whether a numeric increase is favorable
// depends on the attribute. The package splits the problem into layers:
//
//   - ParseChangeLine splits one list line into attribute, before and after.
//   - Classifier labels a change BUFF, NERF or ADJUST, consulting an injected
//     inverted-polarity table; Overall aggregates per-entity labels.
//   - LolParser, TftParser and MayhemParser walk a flattened (kind, text)
//     node sequence as small state machines, one per layout family, and emit
//     only entities that collected at least one change.
//
// Classification is a heuristic: it cannot know gameplay semantics beyond the
// polarity table, so anything ambiguous resolves to ADJUST rather than a
// forced guess.
package parse
