package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nabin00012/codecommons/internal/models"
)

func testClassroom() *models.Classroom {
	return &models.Classroom{
		ID: primitive.NewObjectID(),
		Materials: []models.Material{
			{
				ID:          primitive.NewObjectID(),
				Title:       "Week 1 Notes",
				FileName:    "week1.pdf",
				ContentType: "application/pdf",
				Content:     "JVBERi0=",
			},
			{
				ID:          primitive.NewObjectID(),
				Title:       "Syllabus",
				TextContent: "Read chapters 1-3.",
			},
		},
	}
}

func TestFindMaterialByTitle(t *testing.T) {
	classroom := testClassroom()

	m := findMaterial(classroom, "Syllabus")
	require.NotNil(t, m)
	assert.Equal(t, "Syllabus", m.Title)
}

func TestFindMaterialDecodedName(t *testing.T) {
	// mux hands the handler a decoded path segment: "Week%201%20Notes"
	// on the wire arrives here as "Week 1 Notes".
	classroom := testClassroom()

	m := findMaterial(classroom, "Week 1 Notes")
	require.NotNil(t, m)
	assert.Equal(t, "week1.pdf", m.FileName)
}

func TestFindMaterialLiteralEscapeInTitle(t *testing.T) {
	classroom := testClassroom()
	classroom.Materials = append(classroom.Materials, models.Material{
		ID:          primitive.NewObjectID(),
		Title:       "A%41B",
		TextContent: "tricky title",
	})

	// A title that itself contains a valid escape sequence must not be
	// decoded a second time into "AAB".
	m := findMaterial(classroom, "A%41B")
	require.NotNil(t, m)
	assert.Equal(t, "tricky title", m.TextContent)
}

func TestFindMaterialFallsBackToID(t *testing.T) {
	classroom := testClassroom()

	m := findMaterial(classroom, classroom.Materials[1].ID.Hex())
	require.NotNil(t, m)
	assert.Equal(t, "Syllabus", m.Title)
}

func TestFindMaterialMissing(t *testing.T) {
	classroom := testClassroom()

	assert.Nil(t, findMaterial(classroom, "No Such Material"))
	assert.Nil(t, findMaterial(classroom, primitive.NewObjectID().Hex()))
}

func TestMaterialContentTypeDefault(t *testing.T) {
	assert.Equal(t, "application/pdf", materialContentType(&models.Material{ContentType: "application/pdf"}))
	assert.Equal(t, "application/octet-stream", materialContentType(&models.Material{}))
}

func TestMaterialFileNameFallsBackToTitle(t *testing.T) {
	assert.Equal(t, "week1.pdf", materialFileName(&models.Material{Title: "Week 1", FileName: "week1.pdf"}))
	assert.Equal(t, "Week 1", materialFileName(&models.Material{Title: "Week 1"}))
}
