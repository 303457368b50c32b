package orchestrator

import "math"

// Fee rates per payment type. Percentage rates carry a floor so small
// payments still pay the minimum; withdrawal and bill pay on the fiat
// rail are flat fees.
var monayFeeRates = map[string]float64{
	PaymentTypePayment:     0.029,
	PaymentTypeTransfer:    0.015,
	PaymentTypeWithdrawal:  3.00,
	PaymentTypeDeposit:     0,
	PaymentTypeBillPay:     2.00,
	PaymentTypeCardPayment: 0.025,
	PaymentTypeP2P:         0,
}

var circleFeeRates = map[string]float64{
	PaymentTypePayment:     0.01,
	PaymentTypeTransfer:    0.005,
	PaymentTypeWithdrawal:  1.00,
	PaymentTypeDeposit:     0,
	PaymentTypeBillPay:     0.015,
	PaymentTypeCardPayment: 0.02,
	PaymentTypeP2P:         0,
}

// Processing time estimates in seconds.
var monayTimes = map[string]float64{
	PaymentTypePayment:     3,
	PaymentTypeTransfer:    86400,
	PaymentTypeWithdrawal:  172800,
	PaymentTypeDeposit:     86400,
	PaymentTypeBillPay:     86400,
	PaymentTypeCardPayment: 3,
	PaymentTypeP2P:         5,
}

var circleTimes = map[string]float64{
	PaymentTypePayment:     1,
	PaymentTypeTransfer:    2,
	PaymentTypeWithdrawal:  60,
	PaymentTypeDeposit:     60,
	PaymentTypeBillPay:     120,
	PaymentTypeCardPayment: 2,
	PaymentTypeP2P:         1,
}

func monayFee(amount float64, paymentType string) float64 {
	rate, ok := monayFeeRates[paymentType]
	if !ok {
		rate = 0.02
	}
	if paymentType == PaymentTypeWithdrawal || paymentType == PaymentTypeBillPay {
		return rate
	}
	return math.Max(amount*rate, 0.50)
}

func circleFee(amount float64, paymentType string) float64 {
	rate, ok := circleFeeRates[paymentType]
	if !ok {
		rate = 0.01
	}
	if paymentType == PaymentTypeWithdrawal {
		return rate
	}
	return math.Max(amount*rate, 0.25)
}

func monayTime(paymentType string) float64 {
	if t, ok := monayTimes[paymentType]; ok {
		return t
	}
	return 60
}

func circleTime(paymentType string) float64 {
	if t, ok := circleTimes[paymentType]; ok {
		return t
	}
	return 5
}

// routingScores scores both rails from a base of 50: up to 30 points
// for the fee advantage, up to 30 for the speed advantage, 10 for
// balance sufficiency, 10 for payment-type preference and 20 to the
// custodian rail for international payments, clamped at 100.
func routingScores(amount, monayBalance, circleBalance float64, paymentType string, fees, times RailEstimate, international bool) RailEstimate {
	monayScore := 50.0
	circleScore := 50.0

	feeDiff := fees.Monay - fees.Circle
	if feeDiff > 0 {
		circleScore += math.Min(feeDiff*10, 30)
	} else {
		monayScore += math.Min(math.Abs(feeDiff)*10, 30)
	}

	timeDiff := times.Monay - times.Circle
	if timeDiff > 0 {
		circleScore += math.Min(timeDiff/100, 30)
	} else {
		monayScore += math.Min(math.Abs(timeDiff)/100, 30)
	}

	if monayBalance >= amount {
		monayScore += 10
	}
	if circleBalance >= amount {
		circleScore += 10
	}

	switch paymentType {
	case PaymentTypePayment, PaymentTypeP2P, PaymentTypeTransfer:
		circleScore += 10
	case PaymentTypeBillPay, PaymentTypeCardPayment:
		monayScore += 10
	}

	if international {
		circleScore += 20
	}

	return RailEstimate{
		Monay:  math.Min(monayScore, 100),
		Circle: math.Min(circleScore, 100),
	}
}
