package utils

import (
	"fbs/src/db"
	"fbs/src/types"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	inner, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: inner}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestSeatCheckExemptsOwnBookingSeats(t *testing.T) {
	gdb, mock := newMockDB()

	mock.ExpectQuery(`SELECT (.+) FROM "passengers" (.+)bookings\.id <> (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_leg_id", "seat_code"}))
	mock.ExpectQuery(`SELECT (.+) FROM "seat_holds"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "seat_code", "user_id", "status"}))

	err := assertSeatsFree(gdb, 1, []string{"A1"}, 9, 5)

	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestSeatCheckRejectsSeatsOnOtherBookings(t *testing.T) {
	gdb, mock := newMockDB()

	mock.ExpectQuery(`SELECT (.+) FROM "passengers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_leg_id", "seat_code"}).
			AddRow(1, 1, "A1"))
	mock.ExpectQuery(`SELECT (.+) FROM "seat_holds"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "seat_code", "user_id", "status"}))

	err := assertSeatsFree(gdb, 1, []string{"A1"}, 9, 0)

	assert.ErrorIs(t, err, ErrSeatsTaken)
}

func TestAccessibleSeatNeedsEntitledPassenger(t *testing.T) {
	gdb, mock := newMockDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "vessel_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := assertAccessibleSeats(gdb, 1, []string{"B4"}, false)
	assert.ErrorIs(t, err, ErrAccessibleSeat)

	// A leg with an entitled passenger short-circuits without a query.
	assert.Nil(t, assertAccessibleSeats(gdb, 1, []string{"B4"}, true))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestModificationUpdatesWithholdGatewayDifference(t *testing.T) {
	updates := modificationUpdates(210, true)

	assert.Equal(t, types.BOOKING_MODIFIED, updates["status"])
	assert.Equal(t, float32(210), updates["total"])
	_, credited := updates["amount_paid"]
	assert.False(t, credited)

	updates = modificationUpdates(210, false)
	assert.Equal(t, float32(210), updates["amount_paid"])
}

func TestCompleteDifferencePaymentOnModifiedBooking(t *testing.T) {
	gdb, mock := newMockDB()
	db.NewDB(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "currency", "amount", "method", "source_name", "source_value", "reference_id", "status"}).
			AddRow("7d9f5c70-0000-0000-0000-000000000001", 5, "usd", 30.0, "gateway", "checkout_session", "cs_diff_123", "FB-000005", "pending"))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_number", "status", "total", "amount_paid", "currency"}).
			AddRow(5, "FB-000005", "modified", 210.0, 180.0, "usd"))
	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings" SET (.+)amount_paid \+ (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := CompleteBookingPayment("FB-000005", "cs_diff_123", 30)

	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentIgnoresWebhookRetries(t *testing.T) {
	gdb, mock := newMockDB()
	db.NewDB(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "source_value", "status"}).
			AddRow("7d9f5c70-0000-0000-0000-000000000001", 5, "cs_diff_123", string(types.TRANSACTION_COMPLETED)))
	mock.ExpectCommit()

	err := CompleteBookingPayment("FB-000005", "cs_diff_123", 30)

	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}
