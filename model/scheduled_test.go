package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/bookkeeper/model"
)

func TestAdvanceToNextDueDate(t *testing.T) {
	checking, _, housing := testAccounts(t)
	splits := []model.RawSplit{
		{Account: checking, Amount: -10},
		{Account: housing, Amount: 10},
	}

	tests := []struct {
		name      string
		frequency model.Frequency
		from      time.Time
		expected  time.Time
	}{
		{"weekly", model.FrequencyWeekly, model.Date(2018, 1, 1), model.Date(2018, 1, 8)},
		{"weekly across year", model.FrequencyWeekly, model.Date(2018, 12, 28), model.Date(2019, 1, 4)},
		{"monthly", model.FrequencyMonthly, model.Date(2018, 1, 15), model.Date(2018, 2, 15)},
		{"monthly clamps february", model.FrequencyMonthly, model.Date(2018, 1, 31), model.Date(2018, 2, 28)},
		{"monthly clamps leap february", model.FrequencyMonthly, model.Date(2020, 1, 30), model.Date(2020, 2, 29)},
		{"monthly clamps thirty day month", model.FrequencyMonthly, model.Date(2018, 3, 31), model.Date(2018, 4, 30)},
		{"monthly december", model.FrequencyMonthly, model.Date(2018, 12, 31), model.Date(2019, 1, 31)},
		{"semi monthly first half", model.FrequencySemiMonthly, model.Date(2018, 1, 10), model.Date(2018, 1, 25)},
		{"semi monthly second half", model.FrequencySemiMonthly, model.Date(2018, 1, 20), model.Date(2018, 2, 5)},
		{"semi monthly end of january", model.FrequencySemiMonthly, model.Date(2018, 1, 31), model.Date(2018, 2, 14)},
		{"semi monthly thirtieth of january", model.FrequencySemiMonthly, model.Date(2018, 1, 30), model.Date(2018, 2, 14)},
		{"semi monthly end of march", model.FrequencySemiMonthly, model.Date(2018, 3, 31), model.Date(2018, 4, 15)},
		{"semi monthly fifteenth", model.FrequencySemiMonthly, model.Date(2018, 4, 15), model.Date(2018, 4, 30)},
		{"semi monthly february", model.FrequencySemiMonthly, model.Date(2018, 2, 14), model.Date(2018, 2, 28)},
		{"semi monthly late february", model.FrequencySemiMonthly, model.Date(2018, 2, 20), model.Date(2018, 3, 6)},
		{"semi monthly end of february", model.FrequencySemiMonthly, model.Date(2018, 2, 28), model.Date(2018, 3, 15)},
		{"semi monthly leap day", model.FrequencySemiMonthly, model.Date(2020, 2, 29), model.Date(2020, 3, 15)},
		{"semi monthly december", model.FrequencySemiMonthly, model.Date(2018, 12, 30), model.Date(2019, 1, 15)},
		{"quarterly", model.FrequencyQuarterly, model.Date(2018, 2, 10), model.Date(2018, 5, 10)},
		{"quarterly clamps", model.FrequencyQuarterly, model.Date(2018, 1, 31), model.Date(2018, 4, 30)},
		{"quarterly november", model.FrequencyQuarterly, model.Date(2018, 11, 30), model.Date(2019, 2, 28)},
		{"quarterly rolls year", model.FrequencyQuarterly, model.Date(2018, 10, 31), model.Date(2019, 1, 31)},
		{"yearly", model.FrequencyYearly, model.Date(2018, 1, 31), model.Date(2019, 1, 31)},
		{"yearly leap day", model.FrequencyYearly, model.Date(2020, 2, 29), model.Date(2021, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := model.NewScheduledTransaction("rent", tt.frequency, tt.from, splits)
			assert.NoError(t, err)

			st.AdvanceToNextDueDate()
			assert.Equal(t, tt.expected, st.NextDueDate)
		})
	}
}

func TestScheduledTransactionIsDue(t *testing.T) {
	checking, _, housing := testAccounts(t)
	st, err := model.NewScheduledTransaction("rent", model.FrequencyMonthly, model.Date(2018, 1, 15), []model.RawSplit{
		{Account: checking, Amount: -10},
		{Account: housing, Amount: 10},
	})
	assert.NoError(t, err)

	assert.False(t, st.IsDue(model.Date(2018, 1, 14)))
	assert.True(t, st.IsDue(model.Date(2018, 1, 15)))
	assert.True(t, st.IsDue(time.Date(2018, 1, 15, 23, 59, 0, 0, time.UTC)))
	assert.True(t, st.IsDue(model.Date(2018, 2, 1)))
}

func TestNewScheduledTransactionErrors(t *testing.T) {
	checking, _, housing := testAccounts(t)
	splits := []model.RawSplit{
		{Account: checking, Amount: -10},
		{Account: housing, Amount: 10},
	}

	_, err := model.NewScheduledTransaction("", model.FrequencyMonthly, model.Date(2018, 1, 1), splits)
	var serr *model.InvalidScheduledTransactionError
	assert.True(t, errors.As(err, &serr))

	_, err = model.NewScheduledTransaction("rent", model.FrequencyUnknown, model.Date(2018, 1, 1), splits)
	assert.True(t, errors.As(err, &serr))

	_, err = model.NewScheduledTransaction("rent", model.FrequencyMonthly, time.Time{}, splits)
	assert.True(t, errors.As(err, &serr))

	_, err = model.NewScheduledTransaction("rent", model.FrequencyMonthly, model.Date(2018, 1, 1), []model.RawSplit{
		{Account: checking, Amount: -10},
		{Account: housing, Amount: 11},
	})
	var terr *model.InvalidTransactionError
	assert.True(t, errors.As(err, &terr))
}

func TestParseFrequency(t *testing.T) {
	f, err := model.ParseFrequency("Semi_Monthly")
	assert.NoError(t, err)
	assert.Equal(t, model.FrequencySemiMonthly, f)

	_, err = model.ParseFrequency("daily")
	assert.EqualError(t, err, `invalid frequency "daily"`)
}

func TestScheduledTransactionBuildsTransaction(t *testing.T) {
	checking, _, housing := testAccounts(t)
	st, err := model.NewScheduledTransaction("rent", model.FrequencyMonthly, model.Date(2018, 1, 15), []model.RawSplit{
		{Account: checking, Amount: -10, Status: "C"},
		{Account: housing, Amount: 10},
	}, model.WithPayeeName("Landlord"), model.WithDescription("January rent"))
	assert.NoError(t, err)

	txn, err := st.Transaction()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), txn.ID)
	assert.Equal(t, model.Date(2018, 1, 15), txn.Date)
	assert.Equal(t, "Landlord", txn.PayeeName())
	assert.Equal(t, "January rent", txn.Description)

	split, ok := txn.Split(checking.ID)
	assert.True(t, ok)
	assert.Equal(t, "", split.Status)
	assert.Equal(t, "-10", split.Amount.String())
}
