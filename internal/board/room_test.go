package board

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"whiteboard-backend/internal/model"
)

func testStroke(i int) model.Stroke {
	return model.Stroke{X0: float64(i), Y0: 0, X1: float64(i + 10), Y1: 10, Color: "#000", Size: 3}
}

func TestRoom_Members_JoinOrder(t *testing.T) {
	r := NewRoom("public", 100)

	r.AddMember("s1", "Alice")
	r.AddMember("s2", "Bob")
	r.AddMember("s3", "Alice") // duplicate names are allowed

	assert.Equal(t, []string{"Alice", "Bob", "Alice"}, r.MemberNames())
	assert.Equal(t, []string{"s1", "s2", "s3"}, r.MemberIDs())
	assert.Equal(t, 3, r.MemberCount())
}

func TestRoom_AddMember_SameSessionUpdatesName(t *testing.T) {
	r := NewRoom("public", 100)

	r.AddMember("s1", "Alice")
	r.AddMember("s1", "Alicia")

	assert.Equal(t, []string{"Alicia"}, r.MemberNames())
	assert.Equal(t, 1, r.MemberCount())
}

func TestRoom_RemoveMember(t *testing.T) {
	r := NewRoom("public", 100)
	r.AddMember("s1", "Alice")
	r.AddMember("s2", "Bob")

	assert.True(t, r.RemoveMember("s1"))
	assert.False(t, r.RemoveMember("s1")) // already gone
	assert.Equal(t, []string{"Bob"}, r.MemberNames())
	assert.False(t, r.HasMember("s1"))
	assert.True(t, r.HasMember("s2"))
}

func TestRoom_Strokes_OrderPreserved(t *testing.T) {
	r := NewRoom("public", 100)

	for i := 0; i < 5; i++ {
		r.AppendStroke(testStroke(i))
	}

	strokes := r.Strokes()
	assert.Len(t, strokes, 5)
	for i, s := range strokes {
		assert.Equal(t, testStroke(i), s)
	}
}

func TestRoom_Strokes_CapEvictsOldestFirst(t *testing.T) {
	r := NewRoom("public", 3)

	for i := 0; i < 7; i++ {
		r.AppendStroke(testStroke(i))
	}

	strokes := r.Strokes()
	assert.Len(t, strokes, 3)
	// only the most recent 3 survive, still in drawing order
	assert.Equal(t, []model.Stroke{testStroke(4), testStroke(5), testStroke(6)}, strokes)
}

func TestRoom_Strokes_ReturnsCopy(t *testing.T) {
	r := NewRoom("public", 10)
	r.AppendStroke(testStroke(0))

	snapshot := r.Strokes()
	snapshot[0].Color = "#fff"

	assert.Equal(t, "#000", r.Strokes()[0].Color)
}

func TestRoom_ClearStrokes(t *testing.T) {
	r := NewRoom("public", 10)
	r.AppendStroke(testStroke(0))
	r.AppendStroke(testStroke(1))

	r.ClearStrokes()

	assert.Equal(t, 0, r.StrokeCount())
	assert.Empty(t, r.Strokes())
}

func TestRoom_Background_OverwrittenWholesale(t *testing.T) {
	r := NewRoom("public", 10)
	assert.Equal(t, "", r.Background())

	r.SetBackground("data:image/png;base64,AAAA")
	r.SetBackground("data:image/png;base64,BBBB")

	assert.Equal(t, "data:image/png;base64,BBBB", r.Background())
}

func TestRoom_StrokeCap_ManyAppends(t *testing.T) {
	r := NewRoom("public", 50)

	for i := 0; i < 500; i++ {
		r.AppendStroke(testStroke(i))
	}

	assert.Equal(t, 50, r.StrokeCount())
	first := r.Strokes()[0]
	assert.Equal(t, fmt.Sprintf("%v", testStroke(450)), fmt.Sprintf("%v", first))
}
