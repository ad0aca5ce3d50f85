package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"memento/internal/release/handler/mocks"
	"memento/internal/release/models"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/testutil"
)

// Justification for unit tests: ownership comes only from the authenticated
// context, and released deliverables must surface as 409.

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	owner   id.AccountID
	item    *models.Deliverable
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, testutil.DiscardLogger()).RegisterOwner(s.router)
	s.owner = id.AccountID(uuid.New())
	now := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	s.item = &models.Deliverable{
		ID:             id.DeliverableID(uuid.New()),
		OwnerAccountID: s.owner,
		Title:          "For Bob",
		Policy:         models.PolicyOnDeath,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *HandlerSuite) as(req *http.Request) *http.Request {
	return testutil.WithAccount(req, s.owner)
}

func (s *HandlerSuite) TestCreate() {
	s.Run("201", func() {
		s.service.EXPECT().Create(gomock.Any(), s.owner, gomock.Any()).Return(s.item, nil)
		rr := testutil.DoRequest(s.router, s.as(testutil.NewJSONRequest(s.T(), http.MethodPost, "/me/deliverables",
			map[string]string{"title": "For Bob", "release_policy": "ON_DEATH"})))
		s.Equal(http.StatusCreated, rr.Code)
		resp := testutil.UnmarshalResponse[DeliverableResponse](s.T(), rr)
		s.Equal("ON_DEATH", resp.ReleasePolicy)
		s.False(resp.Released)
	})

	s.Run("on date without a date is 400", func() {
		rr := testutil.DoRequest(s.router, s.as(testutil.NewJSONRequest(s.T(), http.MethodPost, "/me/deliverables",
			map[string]string{"title": "later", "release_policy": "ON_DATE"})))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("anonymous is 401", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/me/deliverables",
			map[string]string{"title": "x", "release_policy": "ON_DEATH"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})
}

func (s *HandlerSuite) TestUpdateAndDelete() {
	path := "/me/deliverables/" + s.item.ID.String()

	s.Run("released is 409", func() {
		s.service.EXPECT().Update(gomock.Any(), s.owner, s.item.ID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeDeliverableReleased, "deliverable has already been released"))
		rr := testutil.DoRequest(s.router, s.as(testutil.NewJSONRequest(s.T(), http.MethodPut, path,
			map[string]string{"title": "new"})))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "deliverable_released")
	})

	s.Run("delete is 204", func() {
		s.service.EXPECT().Delete(gomock.Any(), s.owner, s.item.ID).Return(nil)
		rr := testutil.DoRequest(s.router, s.as(testutil.NewJSONRequest(s.T(), http.MethodDelete, path, nil)))
		s.Equal(http.StatusNoContent, rr.Code)
	})

	s.Run("bad id is 400", func() {
		rr := testutil.DoRequest(s.router, s.as(testutil.NewJSONRequest(s.T(), http.MethodGet, "/me/deliverables/123", nil)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestList() {
	s.service.EXPECT().List(gomock.Any(), s.owner).Return([]*models.Deliverable{s.item}, nil)
	rr := testutil.DoRequest(s.router, s.as(testutil.NewJSONRequest(s.T(), http.MethodGet, "/me/deliverables", nil)))
	s.Equal(http.StatusOK, rr.Code)
	s.Equal(1, testutil.UnmarshalResponse[DeliverableListResponse](s.T(), rr).Total)
}
