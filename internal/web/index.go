package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>UVQ Dashboard</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
h1 { color: #7D56F4; }
table { border-collapse: collapse; margin-bottom: 2em; }
td { padding: 4px 12px; border-bottom: 1px solid #333; }
.green { color: #43BF6D; } .yellow { color: #E5C07B; }
.red { color: #E06C75; } .gray { color: #888; }
#recs div { border-left: 2px solid #7D56F4; padding-left: 1em; margin-bottom: 1em; }
#stale { color: #E06C75; display: none; }
</style>
</head>
<body>
<h1>UVQ — Bitcoin Payment Timing</h1>
<p id="stale">Market data is temporarily unavailable; showing last known values.</p>
<table>
<tr><td>Price</td><td id="price">—</td></tr>
<tr><td>24h change</td><td id="change">—</td></tr>
<tr><td>Volatility</td><td id="vol">—</td></tr>
<tr><td>Fees</td><td id="fees">—</td></tr>
<tr><td>Timing</td><td id="timing">—</td></tr>
<tr><td>Strategy</td><td id="strategy">—</td></tr>
</table>
<h2>Recent recommendations</h2>
<div id="recs"></div>
<script>
const market = new EventSource('/market/stream');
market.addEventListener('market', (e) => {
  const p = JSON.parse(e.data);
  document.getElementById('stale').style.display = p.fetch_failed ? 'block' : 'none';
  if (!p.snapshot) return;
  document.getElementById('price').textContent = '$' + Number(p.snapshot.price).toLocaleString();
  document.getElementById('change').textContent = p.snapshot.price_change_24h + '%';
  const vol = document.getElementById('vol');
  vol.textContent = p.volatility_level;
  vol.className = p.volatility_color;
  document.getElementById('fees').textContent = p.fee_status;
  document.getElementById('timing').textContent = p.timing;
  document.getElementById('strategy').textContent = p.strategy;
});
const recs = new EventSource('/recommendations/stream');
recs.addEventListener('recommendation', (e) => {
  const r = JSON.parse(e.data);
  const div = document.createElement('div');
  div.textContent = r.scenario_type + ': buy ' + r.recommendation.recommended_btc_amount +
    ' BTC, timing ' + r.recommendation.optimal_timing;
  const box = document.getElementById('recs');
  box.insertBefore(div, box.firstChild);
});
</script>
</body>
</html>`
