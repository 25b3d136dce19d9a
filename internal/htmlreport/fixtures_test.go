package htmlreport

// Shared HTML fixtures modeled on real generator output: section divs with
// an "_div" id suffix, labelled summary cells and plain data tables.

const layoutSummaryHTML = `<!DOCTYPE html>
<html><head><title>Performance Test Report</title></head><body>
<div id="Test Run Information_div">
  <h2>Test Run Information</h2>
  <table>
    <tr><td>Start time</td><td>10/20/2025 10:00:00 AM</td></tr>
    <tr><td>End time</td><td>10/20/2025 11:00:00 AM</td></tr>
  </table>
</div>
<div id="Overall Result_div">
  <h2>Overall Result</h2>
  <table>
    <tr><td>Pass/Fail Status</td><td>Passed</td></tr>
    <tr><td>Max User Load</td><td>250</td></tr>
  </table>
</div>
<div id="Requests_div">
  <h2>Requests</h2>
  <table>
    <tr><td>Failed Requests %</td><td>0.42</td></tr>
  </table>
</div>
<div id="Transaction details_div">
  <h2>Transaction details</h2>
  <table>
    <tr>
      <th>Transaction name</th><th>Count</th><th>Pass</th><th>Fail</th>
      <th>Min.(s)</th><th>Max.(s)</th><th>90%(s)</th><th>95%(s)</th>
      <th>Avg.(s)</th><th>Goal</th>
    </tr>
    <tr>
      <td>Login</td><td>120</td><td>118</td><td>2</td>
      <td>0.310</td><td>2.950</td><td>1.100</td><td>1.300</td>
      <td>0.912</td><td>1</td>
    </tr>
    <tr>
      <td>Checkout</td><td>80</td><td>80</td><td>0</td>
      <td>0.800</td><td>4.210</td><td>2.700</td><td>3.100</td>
      <td>2.104</td><td>1</td>
    </tr>
  </table>
</div>
<div id="Top Errors_div">
  <h2>Top Errors</h2>
  <table>
    <tr><th>T.C.</th><th>Request Id</th><th>Error Description</th></tr>
    <tr><td>TC-7</td><td>42</td><td>HTTP 500 Internal Server Error</td></tr>
  </table>
</div>
</body></html>`

// Same summary layout, but from a generator that emits neither the "_div"
// container ids nor wrapping divs: headings and tables are all siblings
// directly under body.
const layoutSummaryFlatHTML = `<!DOCTYPE html>
<html><body>
<h2>Test Run Information</h2>
<table>
  <tr><td>Start time</td><td>10/22/2025 09:00:00 AM</td></tr>
  <tr><td>End time</td><td>10/22/2025 10:00:00 AM</td></tr>
</table>
<h2>Overall Result</h2>
<table>
  <tr><td>Pass/Fail Status</td><td>Passed</td></tr>
  <tr><td>Max User Load</td><td>150</td></tr>
</table>
<h2>Transaction details</h2>
<table>
  <tr>
    <th>Transaction name</th><th>Count</th><th>Pass</th><th>Fail</th>
    <th>Min.(s)</th><th>Max.(s)</th><th>90%(s)</th><th>95%(s)</th>
    <th>Avg.(s)</th><th>Goal</th>
  </tr>
  <tr>
    <td>Login</td><td>60</td><td>60</td><td>0</td>
    <td>0.290</td><td>1.800</td><td>0.900</td><td>1.050</td>
    <td>0.644</td><td>1</td>
  </tr>
</table>
<h2>Top Errors</h2>
<table>
  <tr><th>T.C.</th><th>Request Id</th><th>Error Description</th></tr>
  <tr><td>TC-9</td><td>88</td><td>HTTP 503 Service Unavailable</td></tr>
</table>
</body></html>`

const layoutTableHTML = `<!DOCTYPE html>
<html><body>
<div>
  <h2>Run Info</h2>
  <table>
    <tr><th>Metric</th><th>Value</th></tr>
    <tr><td>Start Time</td><td>2025-10-21 09:00</td></tr>
    <tr><td>End Time</td><td>2025-10-21 10:00</td></tr>
  </table>
</div>
<div>
  <h2>Overall Results</h2>
  <table>
    <tr><th>Metric</th><th>Value</th></tr>
    <tr><td>Status</td><td>Failed</td></tr>
    <tr><td>Max User Load</td><td>300</td></tr>
    <tr><td>Avg Response Time</td><td>1.35</td></tr>
    <tr><td>Requests/sec</td><td>48.2</td></tr>
    <tr><td>Custom Metric (beta)</td><td>7</td></tr>
  </table>
</div>
<div>
  <h2>Transaction Summary</h2>
  <table>
    <tr>
      <th>Transaction</th><th>Avg.(s)</th><th>95%(s)</th>
      <th>Requests</th><th>Errors</th><th>Missed Goals</th>
    </tr>
    <tr><td>Login</td><td>1.402</td><td>2.100</td><td>1,250</td><td>3</td><td>1</td></tr>
    <tr><td>Search</td><td>0.311</td><td>0.540</td><td>4,020</td><td>0</td><td>0</td></tr>
  </table>
</div>
<div>
  <h2>Top Errors</h2>
  <table>
    <tr><th>T.C.</th><th>Request Id</th><th>Error Description</th></tr>
    <tr><td>TC-2</td><td>17</td><td>Connection reset by peer</td></tr>
  </table>
</div>
</body></html>`

// Table layout in flat markup: no wrapping divs, every heading and table a
// direct child of body.
const layoutTableFlatHTML = `<!DOCTYPE html>
<html><body>
<h2>Run Info</h2>
<table>
  <tr><th>Metric</th><th>Value</th></tr>
  <tr><td>Start Time</td><td>2025-10-23 14:00</td></tr>
</table>
<h2>Overall Results</h2>
<table>
  <tr><th>Metric</th><th>Value</th></tr>
  <tr><td>Status</td><td>Passed</td></tr>
</table>
<h2>Transaction Summary</h2>
<table>
  <tr>
    <th>Transaction</th><th>Avg.(s)</th><th>95%(s)</th>
    <th>Requests</th><th>Errors</th><th>Missed Goals</th>
  </tr>
  <tr><td>Login</td><td>1.402</td><td>2.100</td><td>1,250</td><td>3</td><td>1</td></tr>
</table>
<h2>Top Errors</h2>
<table>
  <tr><th>T.C.</th><th>Request Id</th><th>Error Description</th></tr>
  <tr><td>TC-2</td><td>17</td><td>Connection reset by peer</td></tr>
</table>
</body></html>`
