// Package dimension holds the state controller for a box calculator.
//
// Four quantities are kept consistent under user edits:
//
//	volume = length * width * height
//
// Each quantity can be locked. Editing a quantity recomputes exactly one
// other quantity, chosen from the lock set:
//
//   - editing a dimension with volume unlocked recomputes [Volume]
//   - editing a dimension with volume locked solves one other dimension
//   - editing [Volume] solves one dimension
//
// When more than one dimension could be solved for, the free-variable
// priority is height, then width, then length. Editing length under a
// locked volume therefore moves height, and editing height moves width.
//
// The update rule is the pure function [Apply]. [Controller] wraps it
// for callers that hold a single mutable state, absorbs its errors and
// notifies observers.
//
// # Thread Safety
//
// Controller instances are NOT safe for concurrent use. The terminal UI
// serialises every key press through one Update call.
package dimension
