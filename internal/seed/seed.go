// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"farmfit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumRatings  int
	ShouldClean bool
}

var reviewPhrases = []string{
	"Took our terrier in for a limp and they were fantastic from start to finish.",
	"Waiting room was packed but the staff kept everyone informed.",
	"They explained every option and never pushed the expensive one.",
	"Our cat hates vets and somehow left purring.",
	"Follow-up call two days later to check on recovery. That's rare.",
	"Billing was confusing and nobody could explain the line items.",
	"Appointment ran 40 minutes late with no apology.",
	"Gentle with our nervous rescue, worth every penny.",
	"Diagnosed in one visit what two other clinics missed.",
	"Clean facility, clear pricing, kind people.",
}

var petNames = []string{
	"Biscuit", "Luna", "Rex", "Clover", "Maple", "Ziggy", "Pepper", "Waffles",
	"Juniper", "Moose", "Olive", "Banjo",
}

// Seed populates the database with test data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users, %d posts, %d ratings...",
		opts.NumUsers, opts.NumPosts, opts.NumRatings)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	admin, err := ensureAdmin(db)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	clinics, practitioners, err := SeedSubjects(db, admin.ID)
	if err != nil {
		return fmt.Errorf("failed to seed subjects: %w", err)
	}
	log.Printf("%d clinics and %d practitioners available", len(clinics), len(practitioners))

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	ratings, err := createRatings(db, users, clinics, practitioners, opts.NumRatings)
	if err != nil {
		return fmt.Errorf("failed to create ratings: %w", err)
	}
	log.Printf("%d ratings created", len(ratings))

	if err := createVotes(db, users, ratings); err != nil {
		return fmt.Errorf("failed to create votes: %w", err)
	}

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createEngagement(db, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	if err := createConnections(db, users); err != nil {
		return fmt.Errorf("failed to create connections: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

func ensureAdmin(db *gorm.DB) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password-1!A"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := models.User{
		Username: "farmfit_admin",
		Email:    "admin@farmfit.dev",
		Password: string(hash),
		FullName: "FarmFit Admin",
		IsAdmin:  true,
	}
	if err := db.Where(models.User{Username: admin.Username}).FirstOrCreate(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("seed-password-1!A"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, models.User{
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:     gofakeit.Email(),
			Password:  string(hash),
			FullName:  gofakeit.Name(),
			Bio:       gofakeit.Sentence(10),
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		})
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// subjectPick is one candidate (subject, user) pair. Ratings are unique per
// pair, so candidates are enumerated up front and sampled without replacement.
type subjectPick struct {
	subjectType models.SubjectType
	subjectID   uint
}

func createRatings(db *gorm.DB, users []models.User, clinics []models.Clinic, practitioners []models.Practitioner, count int) ([]models.Rating, error) {
	subjects := make([]subjectPick, 0, len(clinics)+len(practitioners))
	for _, c := range clinics {
		subjects = append(subjects, subjectPick{models.SubjectTypeClinic, c.ID})
	}
	for _, p := range practitioners {
		subjects = append(subjects, subjectPick{models.SubjectTypePractitioner, p.ID})
	}
	if len(subjects) == 0 || len(users) == 0 {
		return nil, nil
	}

	type pairKey struct {
		subjectType models.SubjectType
		subjectID   uint
		userID      uint
	}
	pairs := make([]pairKey, 0, len(subjects)*len(users))
	for _, s := range subjects {
		for _, u := range users {
			pairs = append(pairs, pairKey{s.subjectType, s.subjectID, u.ID})
		}
	}
	rand.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	if count > len(pairs) {
		count = len(pairs)
	}

	ratings := make([]models.Rating, 0, count)
	for _, pair := range pairs[:count] {
		overall := 1 + rand.Intn(5)
		visited := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())

		rating := models.Rating{
			SubjectType: pair.subjectType,
			SubjectID:   pair.subjectID,
			UserID:      pair.userID,
			Overall:     overall,
			Title:       gofakeit.Sentence(4),
			Content:     reviewPhrases[rand.Intn(len(reviewPhrases))],
			VisitedAt:   &visited,
		}

		for _, name := range models.DimensionsFor(pair.subjectType) {
			// dimension scores cluster around the overall score
			score := overall + rand.Intn(3) - 1
			score = int(math.Min(5, math.Max(1, float64(score))))
			rating.Dimensions = append(rating.Dimensions, models.RatingDimension{
				Name:  name,
				Score: score,
			})
		}

		if err := db.Create(&rating).Error; err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

func createVotes(db *gorm.DB, users []models.User, ratings []models.Rating) error {
	for i := range ratings {
		rating := &ratings[i]
		helpful, notHelpful := 0, 0
		for _, u := range users {
			if u.ID == rating.UserID || rand.Intn(100) >= 30 {
				continue
			}
			isHelpful := rand.Intn(100) < 75
			vote := models.RatingVote{
				RatingID:  rating.ID,
				UserID:    u.ID,
				IsHelpful: isHelpful,
			}
			if err := db.Create(&vote).Error; err != nil {
				return err
			}
			if isHelpful {
				helpful++
			} else {
				notHelpful++
			}
		}
		if helpful == 0 && notHelpful == 0 {
			continue
		}
		err := db.Model(rating).Updates(map[string]interface{}{
			"helpful_count":     helpful,
			"not_helpful_count": notHelpful,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func createPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 || count == 0 {
		return nil, nil
	}
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[rand.Intn(len(users))]
		post := models.Post{
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
			PetName:   petNames[rand.Intn(len(petNames))],
			UserID:    user.ID,
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		if rand.Intn(100) < 60 {
			post.PhotoURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		}
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createEngagement(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		for _, u := range users {
			if rand.Intn(100) >= 20 {
				continue
			}
			like := models.Like{UserID: u.ID, PostID: post.ID}
			if err := db.Create(&like).Error; err != nil {
				return err
			}
		}

		numComments := rand.Intn(4)
		var lastTopLevel *models.Comment
		for i := 0; i < numComments; i++ {
			commenter := users[rand.Intn(len(users))]
			comment := models.Comment{
				Content: gofakeit.Sentence(8),
				UserID:  commenter.ID,
				PostID:  post.ID,
				Depth:   1,
			}
			// occasionally thread a reply under the previous comment
			if lastTopLevel != nil && rand.Intn(100) < 30 {
				comment.ParentID = &lastTopLevel.ID
				comment.Depth = lastTopLevel.Depth + 1
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
			if comment.ParentID == nil {
				c := comment
				lastTopLevel = &c
			}
		}
	}
	return nil
}

func createConnections(db *gorm.DB, users []models.User) error {
	statuses := []models.ConnectionStatus{
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusPending,
		models.ConnectionStatusDeclined,
	}
	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if rand.Intn(100) >= 15 {
				continue
			}
			conn := models.Connection{
				RequesterID: users[i].ID,
				AddresseeID: users[j].ID,
				Status:      statuses[rand.Intn(len(statuses))],
			}
			if err := db.Create(&conn).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	// Reverse dependency order so foreign keys stay satisfied.
	tables := []string{
		"rating_votes", "rating_reports", "rating_dimensions", "ratings",
		"likes", "comments", "posts", "connections",
		"practitioners", "clinics", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
