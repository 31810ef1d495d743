package srs

// nextPile determines which pile a card moves to after being judged.
//
// Parameters:
//   - current: The pile the card currently sits in
//   - correct: Whether the learner judged the card as known
//   - params: Configuration parameters for the pile algorithm
//
// Returns:
//   - The destination pile, clamped between 0 and params.Piles-1
//
// Algorithm behavior:
//   - Correct answers climb params.PromoteBy piles
//   - Incorrect answers fall back to params.DemoteTo, regardless of the current pile
//   - A card in the top pile that is answered correctly stays there
func nextPile(current int, correct bool, params *Params) int {
	target := params.DemoteTo
	if correct {
		target = current + params.PromoteBy
	}

	if target < 0 {
		target = 0
	}
	if target > params.Piles-1 {
		target = params.Piles - 1
	}

	return target
}

// drawCount determines how many cards are drawn from a pile for the next round.
//
// Piles further away from the lowest non-empty pile are sampled less often:
// the first non-empty pile is drawn completely, the next one by half, the one
// after that by a third, and so on. Fractions round up so that any non-empty
// pile contributes at least one card.
//
// Parameters:
//   - size: The number of cards in the pile
//   - distance: How many piles above the lowest non-empty pile this pile sits
//
// Returns:
//   - ceil(size / (1 + distance)), or 0 for an empty pile
func drawCount(size, distance int) int {
	if size <= 0 {
		return 0
	}
	if distance < 0 {
		distance = 0
	}

	divisor := 1 + distance
	return (size + divisor - 1) / divisor
}
