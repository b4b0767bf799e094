// Package chunk splits oversized canonical text into size-bounded,
// order-preserving pieces.
//
// The splitter is greedy and boundary-preserving: sentences are packed into
// pieces until the byte budget would overflow, a sentence that alone exceeds
// the budget is packed word by word, and a single word over the budget is
// truncated to fit. Truncation loses content and is logged; it is the only
// case where a piece does not reproduce its slice of the input. Every piece
// is guaranteed to fit within the byte budget.
package chunk
