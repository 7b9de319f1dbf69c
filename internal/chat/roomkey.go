package chat

// RoomKey derives the canonical room identifier for an unordered user
// pair: the two ids sorted lexicographically and joined with an
// underscore. RoomKey(a, b) == RoomKey(b, a) for all a, b, which is what
// lets the uniqueness constraint on ChatRoom.ChatID guarantee a single
// room per pair. Pure function, independent of storage.
func RoomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}
