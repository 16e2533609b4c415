package trip

import (
	"fmt"
	"slices"
	"strings"

	"github.com/trentd187/proof/internal/models"
)

// PhotoInput is an upload. Exactly one of ImageData and ImageURL is expected;
// the media layer swaps a data URL for a hosted one before this runs when
// object storage is configured.
type PhotoInput struct {
	UploadedBy    string           `json:"uploadedBy"`
	ImageData     string           `json:"imageData"`
	ImageURL      string           `json:"imageUrl"`
	Caption       string           `json:"caption"`
	ProofType     models.ProofType `json:"proofType"`
	TaggedPlayers []string         `json:"taggedPlayers"`
}

// AddPhoto puts a new photo at the front of the feed.
func AddPhoto(d *models.AppData, env Env, in PhotoInput) (*models.AppData, []Change, error) {
	if err := requirePlayer(d, in.UploadedBy); err != nil {
		return d, nil, err
	}
	if in.ImageData == "" && in.ImageURL == "" {
		return d, nil, fmt.Errorf("image is required: %w", ErrInvalidInput)
	}
	if in.ProofType == "" {
		in.ProofType = models.ProofLife
	}
	if !in.ProofType.Valid() {
		return d, nil, fmt.Errorf("proof type %q: %w", in.ProofType, ErrInvalidInput)
	}
	tagged := distinct(in.TaggedPlayers)
	for _, id := range tagged {
		if err := requirePlayer(d, id); err != nil {
			return d, nil, err
		}
	}

	p := models.Photo{
		ID:            env.NewID(),
		UploadedBy:    in.UploadedBy,
		ImageData:     in.ImageData,
		ImageURL:      in.ImageURL,
		Caption:       strings.TrimSpace(in.Caption),
		ProofType:     in.ProofType,
		TaggedPlayers: tagged,
		CreatedAt:     env.Now(),
		Version:       1,
	}
	next := clone(d)
	next.Photos = withFront(d.Photos, p)
	return next, []Change{upsert(TablePhotos, p.ID, p)}, nil
}

// DeletePhoto removes a photo. Only its uploader may do that.
func DeletePhoto(d *models.AppData, photoID, requesterID string) (*models.AppData, []Change, error) {
	i := slices.IndexFunc(d.Photos, func(p models.Photo) bool { return p.ID == photoID })
	if i < 0 {
		return d, nil, fmt.Errorf("photo %q: %w", photoID, ErrNotFound)
	}
	removed := d.Photos[i]
	if removed.UploadedBy != requesterID {
		return d, nil, ErrNotOwner
	}
	next := clone(d)
	next.Photos = slices.Delete(slices.Clone(d.Photos), i, i+1)
	return next, []Change{{Table: TablePhotos, Op: OpDelete, ID: photoID, Record: removed}}, nil
}

// ReactToPhoto bumps one reaction counter.
func ReactToPhoto(d *models.AppData, photoID, reaction string) (*models.AppData, []Change, error) {
	r, err := parseReaction(reaction)
	if err != nil {
		return d, nil, err
	}
	i := slices.IndexFunc(d.Photos, func(p models.Photo) bool { return p.ID == photoID })
	if i < 0 {
		return d, nil, fmt.Errorf("photo %q: %w", photoID, ErrNotFound)
	}
	p := d.Photos[i]
	p.Reactions = p.Reactions.Inc(r)
	p.Version++

	next := clone(d)
	next.Photos = replaceAt(d.Photos, i, p)
	return next, []Change{upsert(TablePhotos, p.ID, p)}, nil
}
