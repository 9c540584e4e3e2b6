package workorder_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

func TestService_Create(t *testing.T) {
	propertyID := uuid.New()

	type testCase struct {
		name      string
		params    workorder.CreateParams
		setupMock func(m *workorder.MockRepository)
		check     func(t *testing.T, w *workorder.WorkOrder)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Defaults",
			params: workorder.CreateParams{Title: " Leaking faucet ", PropertyID: propertyID, Unit: "2A"},
			setupMock: func(m *workorder.MockRepository) {
				m.EXPECT().CreateWorkOrder(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, w *workorder.WorkOrder) {
				assert.Equal(t, "Leaking faucet", w.Title)
				assert.Equal(t, workorder.PriorityMedium, w.Priority)
				assert.Equal(t, workorder.StatusOpen, w.Status)
				assert.Equal(t, workorder.DefaultCategory, w.Category)
				assert.WithinDuration(t, time.Now(), w.SubmittedDate, time.Minute)
				assert.Nil(t, w.CompletedDate)
			},
		},
		{
			name:    "MissingTitleAndProperty",
			params:  workorder.CreateParams{},
			wantErr: workorder.ErrInvalid,
		},
		{
			name:    "UnknownPriority",
			params:  workorder.CreateParams{Title: "Broken heater", PropertyID: propertyID, Priority: "asap"},
			wantErr: workorder.ErrInvalid,
		},
		{
			name:    "NegativeCost",
			params:  workorder.CreateParams{Title: "Paint", PropertyID: propertyID, EstimatedCost: -1},
			wantErr: workorder.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := workorder.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := workorder.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()
	earlier := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name          string
		stored        workorder.WorkOrder
		status        workorder.Status
		wantCompleted func(t *testing.T, completed *time.Time)
	}

	tests := []testCase{
		{
			name:   "CompletingStampsDate",
			stored: workorder.WorkOrder{Status: workorder.StatusInProgress},
			status: workorder.StatusCompleted,
			wantCompleted: func(t *testing.T, completed *time.Time) {
				require.NotNil(t, completed)
				assert.WithinDuration(t, time.Now(), *completed, time.Minute)
			},
		},
		{
			name:   "ClosingKeepsEarlierDate",
			stored: workorder.WorkOrder{Status: workorder.StatusCompleted, CompletedDate: &earlier},
			status: workorder.StatusClosed,
			wantCompleted: func(t *testing.T, completed *time.Time) {
				assert.Equal(t, &earlier, completed)
			},
		},
		{
			name:   "ReopeningClearsDate",
			stored: workorder.WorkOrder{Status: workorder.StatusCompleted, CompletedDate: &earlier},
			status: workorder.StatusOpen,
			wantCompleted: func(t *testing.T, completed *time.Time) {
				assert.Nil(t, completed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := workorder.NewMockRepository(ctrl)
			stored := tt.stored
			stored.ID = id

			repo.EXPECT().GetWorkOrder(gomock.Any(), id).Return(&stored, nil)
			repo.EXPECT().UpdateWorkOrder(gomock.Any(), gomock.Any()).Return(nil)

			got, err := workorder.NewService(repo).UpdateStatus(context.Background(), id, tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			tt.wantCompleted(t, got.CompletedDate)
		})
	}
}

func TestService_UpdateStatus_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := workorder.NewService(workorder.NewMockRepository(ctrl)).UpdateStatus(context.Background(), uuid.New(), "done")
	assert.ErrorIs(t, err, workorder.ErrInvalid)
}

func TestWorkOrder_Overdue(t *testing.T) {
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	now := due.Add(time.Hour)

	assert.True(t, (&workorder.WorkOrder{Status: workorder.StatusOpen, DueDate: &due}).Overdue(now))
	assert.False(t, (&workorder.WorkOrder{Status: workorder.StatusCompleted, DueDate: &due}).Overdue(now))
	assert.False(t, (&workorder.WorkOrder{Status: workorder.StatusOpen}).Overdue(now))
}
