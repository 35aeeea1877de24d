package service

import (
	"errors"
	"testing"

	"fileroom/backend/internal/model"
)

func (f *fixture) mustRoom(t *testing.T, usernames ...string) *model.Room {
	t.Helper()

	room, err := f.rooms.Create(usernames...)
	if err != nil {
		t.Fatalf("Create(%v) error = %v", usernames, err)
	}

	return room
}

func TestCreateRoom(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")

	room := f.mustRoom(t, "a", "b")

	if len(room.Name) != 5 {
		t.Errorf("room name %q is %d characters, want 5", room.Name, len(room.Name))
	}

	var members []model.Member
	if err := f.db.Where("room_id = ?", room.ID).Order("id").Find(&members).Error; err != nil {
		t.Fatalf("failed to load members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("room has %d members, want 2", len(members))
	}

	// The creator is seeded pre-joined with place 2
	if members[0].Place != 2 || members[0].Switch != model.SwitchJoined {
		t.Errorf("creator member = place %d switch %d, want place 2 switch 1", members[0].Place, members[0].Switch)
	}
	if members[1].Place != 1 || members[1].Switch != model.SwitchUnset {
		t.Errorf("invited member = place %d switch %d, want place 1 switch -1", members[1].Place, members[1].Switch)
	}
}

func TestCreateRoomTooSmall(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")

	if _, err := f.rooms.Create("a"); !errors.Is(err, ErrRoomTooSmall) {
		t.Errorf("Create() with one user error = %v, want ErrRoomTooSmall", err)
	}
}

func TestDuplicateRoomOrderIndependent(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")

	f.mustRoom(t, "a", "b")

	// Same set in a different order is the same room
	if _, err := f.rooms.Create("b", "a"); !errors.Is(err, ErrRoomExists) {
		t.Errorf("Create() with reordered members error = %v, want ErrRoomExists", err)
	}

	if !f.rooms.IsRoom("b", "a") {
		t.Error("IsRoom() = false for an existing member set")
	}
	if f.rooms.IsRoom("a", "nobody") {
		t.Error("IsRoom() = true for a set with an unknown user")
	}
}

func TestDistinctSetsMakeDistinctRooms(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")
	f.mustCreate(t, "c")

	f.mustRoom(t, "a", "b")

	// A superset is a different room
	if _, err := f.rooms.Create("a", "b", "c"); err != nil {
		t.Fatalf("Create() of a superset room error = %v", err)
	}

	if f.rooms.IsRoom("a", "c") {
		t.Error("IsRoom() = true for a subset that is no room")
	}
}

func TestJoinCancel(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")

	room := f.mustRoom(t, "a", "b")

	if err := f.rooms.Join(room.ID, "b", model.SwitchJoined); err != nil {
		t.Fatalf("Join(1) error = %v", err)
	}

	rooms, err := f.rooms.MyRooms("b")
	if err != nil {
		t.Fatalf("MyRooms() error = %v", err)
	}
	if joined := findMember(t, rooms[room.Name], "b").Joined; joined == nil || !*joined {
		t.Errorf("joined = %v after Join(1), want true", joined)
	}

	// Cancel flips to declined, not back to unset
	if err := f.rooms.Join(room.ID, "b", model.SwitchDeclined); err != nil {
		t.Fatalf("Join(0) error = %v", err)
	}

	rooms, err = f.rooms.MyRooms("b")
	if err != nil {
		t.Fatalf("MyRooms() error = %v", err)
	}
	if joined := findMember(t, rooms[room.Name], "b").Joined; joined == nil || *joined {
		t.Errorf("joined = %v after Join(0), want false", joined)
	}
}

func TestJoinValidation(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")

	room := f.mustRoom(t, "a", "b")

	if err := f.rooms.Join(room.ID, "b", 5); !errors.Is(err, ErrSwitchInvalid) {
		t.Errorf("Join(5) error = %v, want ErrSwitchInvalid", err)
	}
	if err := f.rooms.Join(999, "b", model.SwitchJoined); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Join() on unknown room error = %v, want ErrRoomNotFound", err)
	}
}

func TestMyRooms(t *testing.T) {
	f := newFixture(t)

	if _, err := f.accounts.Create("alice", "password123", "alice@example.com", model.TypeBasic, "Alice", "Ada"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	f.mustCreate(t, "bob")
	f.mustCreate(t, "carol")

	r1 := f.mustRoom(t, "alice", "bob")
	r2 := f.mustRoom(t, "bob", "carol")

	rooms, err := f.rooms.MyRooms("alice")
	if err != nil {
		t.Fatalf("MyRooms() error = %v", err)
	}

	if len(rooms) != 1 {
		t.Fatalf("MyRooms(alice) has %d rooms, want 1", len(rooms))
	}
	if _, ok := rooms[r1.Name]; !ok {
		t.Fatalf("MyRooms(alice) is missing room %q", r1.Name)
	}
	if _, ok := rooms[r2.Name]; ok {
		t.Errorf("MyRooms(alice) contains foreign room %q", r2.Name)
	}

	views := rooms[r1.Name]
	if len(views) != 2 {
		t.Fatalf("room %q has %d member views, want 2", r1.Name, len(views))
	}

	creator := findMember(t, views, "alice")
	if creator.User.FirstName != "Alice" || creator.User.LastName != "Ada" {
		t.Errorf("creator view = %+v, want display info resolved", creator.User)
	}
	if creator.Joined == nil || !*creator.Joined {
		t.Errorf("creator joined = %v, want true", creator.Joined)
	}

	invited := findMember(t, views, "bob")
	if invited.Joined != nil {
		t.Errorf("invited joined = %v, want nil while unset", invited.Joined)
	}
}

func TestAppendPop(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")
	f.mustCreate(t, "c")

	room := f.mustRoom(t, "a", "b")

	if err := f.rooms.Append(room.ID, "c", 0); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := f.rooms.Append(room.ID, "c", 0); !errors.Is(err, ErrMemberExists) {
		t.Errorf("second Append() error = %v, want ErrMemberExists", err)
	}

	if err := f.rooms.Pop(room.ID, "c"); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if err := f.rooms.Pop(room.ID, "c"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("second Pop() error = %v, want ErrMemberNotFound", err)
	}

	// A popped member can be re-added despite the tombstoned row
	if err := f.rooms.Append(room.ID, "c", 3); err != nil {
		t.Errorf("Append() after Pop() error = %v", err)
	}
}

func TestChangeMember(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")

	room := f.mustRoom(t, "a", "b")

	if err := f.rooms.ChangeMember(room.ID, "b", 4); err != nil {
		t.Fatalf("ChangeMember() error = %v", err)
	}

	var member model.Member
	userID, _ := f.accounts.GetID("b")
	if err := f.db.Where("room_id = ? AND user_id = ?", room.ID, userID).First(&member).Error; err != nil {
		t.Fatalf("failed to load member: %v", err)
	}
	if member.Place != 4 {
		t.Errorf("place = %d after ChangeMember, want 4", member.Place)
	}

	if err := f.rooms.ChangeMember(room.ID, "nobody", 1); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("ChangeMember() for unknown user error = %v, want ErrAccountNotFound", err)
	}
}

func TestRoomFiles(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "a")
	f.mustCreate(t, "b")

	room := f.mustRoom(t, "a", "b")

	// Room uploads keep their name as-is, no collision prefixing
	first, err := f.rooms.AttachFile(room.ID, "7bit", "text/plain", 5, "apple.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("AttachFile() error = %v", err)
	}
	second, err := f.rooms.AttachFile(room.ID, "7bit", "text/plain", 5, "apple.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("AttachFile() error = %v", err)
	}
	if first.OriginalName != "apple.txt" || second.OriginalName != "apple.txt" {
		t.Errorf("room uploads = %q, %q, want both apple.txt", first.OriginalName, second.OriginalName)
	}

	views, err := f.files.AllFiles("", room.Name)
	if err != nil {
		t.Fatalf("AllFiles(room) error = %v", err)
	}
	if len(views) != 2 {
		t.Errorf("AllFiles(room) returned %d views, want 2", len(views))
	}

	// Members can fetch room files, outsiders can't
	aliceID, _ := f.accounts.GetID("a")
	if _, err := f.files.GetRoomFile(aliceID, first.ID); err != nil {
		t.Errorf("GetRoomFile() by member error = %v", err)
	}

	f.mustCreate(t, "outsider")
	outsiderID, _ := f.accounts.GetID("outsider")
	if _, err := f.files.GetRoomFile(outsiderID, first.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("GetRoomFile() by outsider error = %v, want ErrFileNotFound", err)
	}

	if _, err := f.rooms.AttachFile(999, "7bit", "text/plain", 1, "x", []byte("x")); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("AttachFile() on unknown room error = %v, want ErrRoomNotFound", err)
	}
}

func findMember(t *testing.T, views []MemberView, username string) MemberView {
	t.Helper()

	for _, v := range views {
		if v.User.Username == username {
			return v
		}
	}

	t.Fatalf("member %q not found in %+v", username, views)
	return MemberView{}
}
